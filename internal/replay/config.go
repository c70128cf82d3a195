package replay

// DefaultIWAD is the base data archive used when Config.IWAD is empty.
const DefaultIWAD = "DOOM2.WAD"

// Default locations, relative to the repository root the suite runs from.
const (
	DefaultEngine  = "./build/prboom-plus.exe"
	DefaultWadDir  = "spec/support/wads"
	DefaultDemoDir = "spec/support/lmps"
)

// Config identifies one replay.
type Config struct {
	// Demo is the recorded input file, relative to Layout.DemoDir. Required.
	Demo string

	// IWAD is the base data archive, relative to Layout.WadDir.
	// Empty means DefaultIWAD.
	IWAD string

	// PWAD is an optional patch archive layered on top of the IWAD.
	PWAD string
}

// BaseWAD returns the configured IWAD or DefaultIWAD.
func (c Config) BaseWAD() string {
	if c.IWAD == "" {
		return DefaultIWAD
	}
	return c.IWAD
}

// Layout locates the engine executable and its input directories.
type Layout struct {
	Engine  string
	WadDir  string
	DemoDir string
}

// DefaultLayout returns the layout of a prboom-plus checkout with the test
// suite's support files under spec/support.
func DefaultLayout() Layout {
	return Layout{
		Engine:  DefaultEngine,
		WadDir:  DefaultWadDir,
		DemoDir: DefaultDemoDir,
	}
}

// withDefaults fills empty fields from DefaultLayout.
func (l Layout) withDefaults() Layout {
	def := DefaultLayout()
	if l.Engine == "" {
		l.Engine = def.Engine
	}
	if l.WadDir == "" {
		l.WadDir = def.WadDir
	}
	if l.DemoDir == "" {
		l.DemoDir = def.DemoDir
	}
	return l
}
