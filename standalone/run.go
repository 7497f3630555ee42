package standalone

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"
	vmcore "github.com/user-none/ravenui/api"
	"github.com/user-none/ravenui/romloader"
	"github.com/user-none/ravenui/standalone/storage"
)

// Options controls a Run. Zero values select the host defaults.
type Options struct {
	// ROMPath is the ROM to load. Empty opens a file dialog.
	ROMPath string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// AudioBackend defaults to the system output through oto.
	AudioBackend AudioBackend

	// Fatal handles errors raised on audio threads. Defaults to logging
	// the error and exiting the process.
	Fatal func(error)
}

func (o *Options) applyDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.AudioBackend == nil {
		o.AudioBackend = OtoBackend{}
	}
	if o.Fatal == nil {
		o.Fatal = func(err error) {
			log.Fatalf("Fatal: %v", err)
		}
	}
}

// archiveExtensions are offered by the ROM dialog alongside the core's own.
var archiveExtensions = []string{"zip", "7z", "gz", "tgz", "rar"}

// Run loads a ROM, creates a machine from factory and drives it until the
// window closes or the machine exits. A machine exit request is returned
// as *vmcore.ExitError so the caller can exit with its code.
func Run(factory vmcore.Factory, opts Options) error {
	opts.applyDefaults()
	info := factory.SystemInfo()

	storage.Init(info.DataDirName)
	if err := storage.EnsureDirectories(); err != nil {
		log.Printf("Warning: failed to create directories: %v", err)
	}
	if err := storage.CreateConfigIfMissing(); err != nil {
		log.Printf("Warning: failed to create config: %v", err)
	}

	config, configOK := loadConfig()

	romPath := opts.ROMPath
	if romPath == "" {
		var err error
		romPath, err = pickROM(info)
		if err != nil {
			return err
		}
	}

	rom, err := romloader.Load(romPath, info.Extensions)
	if err != nil {
		return fmt.Errorf("failed to load ROM: %w", err)
	}

	machine, err := factory.CreateMachine(rom.Data)
	if err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}

	keys := loadKeys()
	console := OpenConsole(config.Console.Enabled, opts.Stdin)

	want := AudioFormat{SampleRate: info.SampleRate, Channels: info.AudioChannels}
	bridge, err := NewAudioBridge(opts.AudioBackend, want, machine.AudioStreams(), opts.Fatal)
	if err != nil {
		return fmt.Errorf("failed to start audio: %w", err)
	}
	defer bridge.Close()
	if config.Audio.Muted {
		bridge.SetVolume(0)
	} else {
		bridge.SetVolume(config.Audio.Volume)
	}

	width, height := machine.ScreenSize()
	if width == 0 || height == 0 {
		width, height = uint16(info.ScreenWidth), uint16(info.ScreenHeight)
	}
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", info.CoreName, rom.Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(width)*config.Window.Scale, int(height)*config.Window.Scale)
	ebiten.SetFullscreen(config.Window.Fullscreen)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	r := newRunner(machine, keys, console, NewScreenshotManager(rom.Name, config.Window.Scale), opts.Stdout, opts.Stderr)
	runErr := ebiten.RunGame(r)

	if configOK {
		config.Window.Fullscreen = ebiten.IsFullscreen()
		if err := storage.SaveConfig(config); err != nil {
			log.Printf("Warning: failed to save config: %v", err)
		}
	}

	return runErr
}

// loadConfig returns the stored config, or defaults when it cannot be
// read. Invalid values are reported, reset and written back so the
// warnings do not repeat. The second result is false when the file must
// not be overwritten on exit.
func loadConfig() (*storage.Config, bool) {
	config, err := storage.LoadConfig()
	if err != nil {
		log.Printf("Warning: failed to load config, using defaults: %v", err)
		return storage.DefaultConfig(), false
	}
	if errs := storage.ValidateConfig(config); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("Warning: invalid config value %s", e)
		}
		storage.CorrectConfig(config)
		if err := storage.SaveConfig(config); err != nil {
			log.Printf("Warning: failed to save corrected config: %v", err)
		}
	}
	return config, true
}

// loadKeys returns the key table with keymap.toml overrides applied.
func loadKeys() KeyTable {
	path, err := storage.GetKeymapPath()
	if err != nil {
		return DefaultKeyTable()
	}
	keys, err := LoadKeyTable(path)
	if err != nil {
		log.Printf("Warning: ignoring keymap overrides: %v", err)
		return DefaultKeyTable()
	}
	return keys
}

// pickROM asks the user for a ROM file.
func pickROM(info vmcore.SystemInfo) (string, error) {
	exts := make([]string, 0, len(info.Extensions)+len(archiveExtensions))
	for _, ext := range info.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	exts = append(exts, archiveExtensions...)

	path, err := dialog.File().
		Title("Open ROM").
		Filter(info.Name+" ROMs", exts...).
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", romloader.ErrNoROMFile
	}
	if err != nil {
		return "", fmt.Errorf("file dialog failed: %w", err)
	}
	return path, nil
}
