// Package panel implements the interactive terminal control panel.
//
// The panel is a bubbletea application with three modes: the device
// list (one row per projector with an action row derived from its
// vendor catalog), an inline settings editor, and a discovery view for
// adopting scan results. All device I/O runs in tea.Cmd closures off
// the UI thread; results come back as messages.
//
// Power actions update the row optimistically and re-probe afterwards,
// so a failed command snaps the display back to reality instead of
// lying. Source selection uses the facade's cycle-and-probe loop; if
// the loop exhausts its budget the panel opts into one raw press of
// the advance command and says so in the status line, keeping
// projectors with broken status pages drivable.
//
// Closing the panel (q, esc, ctrl+c) saves the device list.
package panel
