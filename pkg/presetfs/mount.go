package presetfs

import (
	"fmt"
	"os"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/moby/sys/mountinfo"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

type MountOptions struct {
	MountPoint string
	ShowAll    bool
}

// Mount builds the filesystem for l and prepares a FUSE server on
// options.MountPoint. The returned start function serves it in the
// background; the channel reports a mount failure or is closed once the
// server stops.
func Mount(l PresetLister, options MountOptions) (func() error, <-chan error, *fuse.Server, error) {
	log.Info().Msgf("mounting preset library to %s", options.MountPoint)

	if _, err := os.Stat(options.MountPoint); os.IsNotExist(err) {
		err = os.MkdirAll(options.MountPoint, 0755)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create mount point directory: %v", err)
		}
	}

	mounted, err := mountinfo.Mounted(options.MountPoint)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to check mount point: %v", err)
	}
	if mounted {
		return nil, nil, nil, fmt.Errorf("mount point %s is already mounted", options.MountPoint)
	}

	pfs, err := NewFileSystem(l, PresetFileSystemOpts{ShowAll: options.ShowAll})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create filesystem: %v", err)
	}

	root, _ := pfs.Root()
	attrTimeout := time.Second * 60
	entryTimeout := time.Second * 60
	fsOptions := &fs.Options{
		AttrTimeout:  &attrTimeout,
		EntryTimeout: &entryTimeout,
	}
	server, err := fuse.NewServer(fs.NewNodeFS(root, fsOptions), options.MountPoint, &fuse.MountOptions{
		FsName:        "h5e",
		Name:          "presetfs",
		DisableXAttrs: true,
		Options:       []string{"ro"},
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not create server: %v", err)
	}

	serverError := make(chan error, 1)
	startServer := func() error {
		go func() {
			go server.Serve()

			if err := server.WaitMount(); err != nil {
				serverError <- err
				return
			}

			server.Wait()
			close(serverError)
		}()

		return nil
	}

	return startServer, serverError, server, nil
}

// Unmount stops the server. If the kernel still reports the mount point as
// busy, it falls back to a lazy unmount.
func Unmount(server *fuse.Server, mountPoint string) error {
	err := server.Unmount()
	if err == nil {
		return nil
	}

	log.Warn().Err(err).Str("mount_point", mountPoint).Msg("unmount failed, detaching")

	if detachErr := unix.Unmount(mountPoint, unix.MNT_DETACH); detachErr != nil {
		return fmt.Errorf("failed to unmount %s: %v (detach: %v)", mountPoint, err, detachErr)
	}
	return nil
}
