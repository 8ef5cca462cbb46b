package fs

import (
	"os"
	"os/exec"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// HostFS wraps the filesystem operations used by oxhost.
type HostFS interface {
	FileExists(path string) (bool, error)
	DirExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data string) error
	MkdirAll(path string) error
	TempFile(dir, pattern string) (*os.File, error)
	Remove(name string) error
	LookPath(file string) (string, error)
}

type fsImpl struct{}

// New creates a new HostFS.
func New() HostFS {
	return fsImpl{}
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) WriteFile(name string, data string) error {
	return os.WriteFile(name, []byte(data), 0644)
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) TempFile(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

// LookPath searches for an executable in the directories named by PATH.
func (fsImpl) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
