package platform

// Chrome is the set of titlebar controls a host builds around the content
// surface. Any field may be nil when the host does not provide it.
type Chrome struct {
	Titlebar Control
	Icon     Control
	Title    Control
	Content  Control

	Minimize Button
	Maximize Button
	Close    Button
}
