//go:build unix

package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// osReplace: POSIX rename 在同一文件系统内是原子的。
func osReplace(tmpPath, dest string) error {
	return os.Rename(tmpPath, dest)
}

// syncDir fsync 父目录以持久化目录项。
func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
