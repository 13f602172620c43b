package folders

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

// ownerReadExec is the owner r-x permission bits toggled by ModeBits.
const ownerReadExec os.FileMode = 0o500

// Permissions denies and restores the current user's access to a folder.
type Permissions interface {
	Lock(path string) error
	Unlock(path string) error
}

// DefaultPermissions returns the Permissions for the running platform.
func DefaultPermissions() (Permissions, error) {
	if runtime.GOOS == "windows" {
		user, err := utils.GetUsername()
		if err != nil {
			return nil, fmt.Errorf("failed to determine current user: %w", err)
		}
		return NewICACLS(user), nil
	}
	return ModeBits{}, nil
}

// ModeBits toggles the owner read and execute permission bits.
type ModeBits struct{}

func (ModeBits) Lock(path string) error {
	return chmod(path, func(mode os.FileMode) os.FileMode { return mode &^ ownerReadExec })
}

func (ModeBits) Unlock(path string) error {
	return chmod(path, func(mode os.FileMode) os.FileMode { return mode | ownerReadExec })
}

func chmod(path string, change func(os.FileMode) os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", serrors.ErrFolderCommandFailed, err)
	}
	if err := os.Chmod(path, change(info.Mode().Perm())); err != nil {
		return fmt.Errorf("%w: %v", serrors.ErrFolderCommandFailed, err)
	}
	return nil
}

// runner executes a command and returns its stderr on failure.
type runner func(name string, args ...string) (stderr string, err error)

func execRunner(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// ICACLS edits folder ACLs with the Windows icacls tool.
type ICACLS struct {
	user string
	run  runner
}

// NewICACLS returns an ICACLS acting for user.
func NewICACLS(user string) *ICACLS {
	return &ICACLS{user: user, run: execRunner}
}

func (i *ICACLS) Lock(path string) error {
	return i.exec(path, "/deny", i.user+":(RX)")
}

func (i *ICACLS) Unlock(path string) error {
	return i.exec(path, "/remove:d", i.user)
}

func (i *ICACLS) exec(args ...string) error {
	stderr, err := i.run("icacls", args...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s", serrors.ErrFolderCommandFailed, msg)
	}
	return nil
}
