package logger

import charmlog "github.com/charmbracelet/log"

// getDefaultStyles returns the text-formatter styles used when JSON
// output isn't requested: level labels colored, everything else left at
// the library's own defaults.
func getDefaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = styles.Levels[charmlog.DebugLevel].Faint(true)
	styles.Levels[charmlog.ErrorLevel] = styles.Levels[charmlog.ErrorLevel].Bold(true)
	return styles
}
