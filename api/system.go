package vmcore

// SystemInfo describes a machine for frontend configuration.
type SystemInfo struct {
	Name          string
	CoreName      string
	CoreVersion   string
	Extensions    []string
	DataDirName   string
	ScreenWidth   int // Initial screen width in pixels
	ScreenHeight  int // Initial screen height in pixels
	SampleRate    int
	AudioChannels int
}
