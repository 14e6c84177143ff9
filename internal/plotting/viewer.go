package plotting

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Viewer показывает файл с графиком пользователю.
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// SystemViewer открывает файл штатной программой ОС
// (xdg-open, open, rundll32).
type SystemViewer struct {
	goos   string
	getenv func(string) string
	run    func(ctx context.Context, name string, args ...string) error
}

// NewSystemViewer создаёт просмотрщик для текущей ОС.
func NewSystemViewer() *SystemViewer {
	return &SystemViewer{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Open реализует Viewer.
func (v *SystemViewer) Open(ctx context.Context, path string) error {
	name, args, err := v.command(path)
	if err != nil {
		return err
	}
	if err := v.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrViewerFailed, name, err)
	}
	return nil
}

// Available сообщает, есть ли на чём показать график.
func (v *SystemViewer) Available() bool {
	_, _, err := v.command("")
	return err == nil
}

// DisplayAvailable сообщает, может ли системный просмотрщик показать график
// в текущем окружении.
func DisplayAvailable() bool {
	return NewSystemViewer().Available()
}

func (v *SystemViewer) command(path string) (string, []string, error) {
	switch v.goos {
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		if v.getenv("DISPLAY") == "" && v.getenv("WAYLAND_DISPLAY") == "" {
			return "", nil, fmt.Errorf("%w: neither DISPLAY nor WAYLAND_DISPLAY is set", ErrNoDisplay)
		}
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("%w: no viewer for %s", ErrNoDisplay, v.goos)
	}
}
