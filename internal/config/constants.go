package config

import "time"

// Base application details
const AppName = "invite"
const ConfigDirName = "invite"
const ThemesDirName = "themes"
const TemplatesDirName = "templates"
const DefaultThemeFileName = "theme.toml"   // Active theme file
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "invite.log"
const DefaultDocumentFileName = "invitation.json"

// UI Layout
const StatusBarHeight = 1
const ObjectPanelWidth = 28

// Input Behavior
const DefaultNudgeStep = 1
const NudgeMultiplier = 10 // Shift+arrow

// Theme
const DefaultTheme = "Invite Dark"

// Status Bar
const MessageTimeout = 4 * time.Second

// History
const DefaultHistoryCapacity = 50
const CheckpointSession = "session"
const CheckpointKeystroke = "keystroke"

// Canvas & export
const DefaultCanvas = "5x7"
const DefaultTemplate = "classic"
const DefaultExportMultiplier = 2
const MaxExportMultiplier = 8
const PasteOffset = 20

// Plugins
const DefaultAutosaveInterval = 30 * time.Second

const SystemClipboard = false
