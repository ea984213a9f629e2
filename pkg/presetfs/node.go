package presetfs

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/rs/zerolog/log"
)

// DirNode is the mount root. It is the only directory.
type DirNode struct {
	fs.Inode
	filesystem *PresetFileSystem
	attr       fuse.Attr
}

var _ = (fs.NodeGetattrer)((*DirNode)(nil))
var _ = (fs.NodeLookuper)((*DirNode)(nil))
var _ = (fs.NodeReaddirer)((*DirNode)(nil))

func (n *DirNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	log.Debug().Msg("Getattr called on root")
	out.Attr = n.attr
	return fs.OK
}

func (n *DirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	log.Debug().Str("name", name).Msg("Lookup called")

	entry, ok := n.filesystem.files[name]
	if !ok {
		return nil, syscall.ENOENT
	}

	if child := n.GetChild(name); child != nil {
		out.Attr = entry.attr
		return child, fs.OK
	}

	out.Attr = entry.attr
	child := n.NewInode(ctx, &FileNode{entry: entry}, fs.StableAttr{Mode: entry.attr.Mode, Ino: entry.attr.Ino})
	return child, fs.OK
}

func (n *DirNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	log.Debug().Msg("Readdir called")

	entries := make([]fuse.DirEntry, 0, len(n.filesystem.names))
	for _, name := range n.filesystem.names {
		entry := n.filesystem.files[name]
		entries = append(entries, fuse.DirEntry{
			Name: name,
			Mode: entry.attr.Mode,
			Ino:  entry.attr.Ino,
		})
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (n *DirNode) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	return nil, nil, 0, syscall.EROFS
}

func (n *DirNode) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	return nil, syscall.EROFS
}

func (n *DirNode) Unlink(ctx context.Context, name string) syscall.Errno {
	return syscall.EROFS
}

func (n *DirNode) Rename(ctx context.Context, oldName string, newParent fs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	return syscall.EROFS
}

// FileNode serves one rendered preset from memory.
type FileNode struct {
	fs.Inode
	entry *fileEntry
}

var _ = (fs.NodeGetattrer)((*FileNode)(nil))
var _ = (fs.NodeOpener)((*FileNode)(nil))
var _ = (fs.NodeReader)((*FileNode)(nil))

func (n *FileNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	log.Debug().Str("name", n.entry.name).Msg("Getattr called")
	out.Attr = n.entry.attr
	return fs.OK
}

func (n *FileNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	log.Debug().Str("name", n.entry.name).Uint32("flags", flags).Msg("Open called")

	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

func (n *FileNode) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	log.Debug().Str("name", n.entry.name).Int64("offset", off).Msg("Read called")

	content := n.entry.content
	if off < 0 {
		return nil, syscall.EINVAL
	}
	if off >= int64(len(content)) {
		return fuse.ReadResultData(dest[:0]), fs.OK
	}

	end := off + int64(len(dest))
	if end > int64(len(content)) {
		end = int64(len(content))
	}

	nRead := copy(dest, content[off:end])
	return fuse.ReadResultData(dest[:nRead]), fs.OK
}
