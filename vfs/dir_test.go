package vfs

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"

	"github.com/vfs-kit/vfskit/vpath"
)

// newTestDirFS builds a DirFS over a fresh in-memory storage port.
func newTestDirFS(root string) (*DirFS, afero.Afero) {
	backend := afero.NewMemMapFs()
	fs := lo.Must(NewFs(root, backend))
	return fs, afero.Afero{Fs: backend}
}

func TestDirFSConstruction(t *testing.T) {
	Convey("Constructing a DirFS", t, func() {
		Convey("With an existing root directory", func() {
			backend := afero.NewMemMapFs()
			lo.Must0(backend.MkdirAll("/existing", 0o755))

			fs := lo.Must(NewFs("/existing", backend))
			So(fs.Root(), ShouldEqual, "/existing")
			So(fs.Cwd(), ShouldEqual, "/")
			So(fs.Exists("/"), ShouldBeTrue)
			So(fs.createdRootParents, ShouldBeEmpty)
		})

		Convey("With a brand-new nested root", func() {
			fs, host := newTestDirFS("/a/b/c")
			So(fs.createdRootParents, ShouldResemble, []string{"/a", "/a/b", "/a/b/c"})
			So(lo.Must(host.DirExists("/a/b/c")), ShouldBeTrue)
		})

		Convey("With a partially existing root, only the missing part is remembered", func() {
			backend := afero.NewMemMapFs()
			lo.Must0(backend.MkdirAll("/x", 0o755))

			fs := lo.Must(NewFs("/x/y/z", backend))
			So(fs.createdRootParents, ShouldResemble, []string{"/x/y", "/x/y/z"})
		})

		Convey("Empty root is rejected", func() {
			_, err := NewFs("", afero.NewMemMapFs())
			So(errors.Is(err, ErrInvalidPath), ShouldBeTrue)
		})

		Convey("Relative root is rejected", func() {
			_, err := NewFs("relative/root", afero.NewMemMapFs())
			So(errors.Is(err, ErrInvalidPath), ShouldBeTrue)
		})

		Convey("A root that is an existing file is rejected", func() {
			backend := afero.NewMemMapFs()
			lo.Must0(afero.WriteFile(backend, "/occupied", []byte("x"), 0o644))

			_, err := NewFs("/occupied", backend)
			So(errors.Is(err, ErrInvalidPath), ShouldBeTrue)
		})

		Convey("The writability probe leaves no sentinel behind", func() {
			_, host := newTestDirFS("/probe")
			So(lo.Must(host.Exists("/probe/.access")), ShouldBeFalse)
		})
	})
}

func TestDirFSMkdir(t *testing.T) {
	Convey("Mkdir", t, func() {
		fs, host := newTestDirFS("/vfs")

		Convey("Creates every missing intermediate directory", func() {
			So(fs.Mkdir("/a/b/c"), ShouldBeNil)

			So(lo.Must(fs.Tree("/")), ShouldResemble, []string{"/a", "/a/b", "/a/b/c"})
			for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
				So(lo.Must(fs.IsDir(p)), ShouldBeTrue)
			}
			So(lo.Must(host.DirExists("/vfs/a/b/c")), ShouldBeTrue)
		})

		Convey("Fails when the exact target already exists", func() {
			So(fs.Mkdir("/a"), ShouldBeNil)
			err := fs.Mkdir("/a")
			So(errors.Is(err, ErrAlreadyExists), ShouldBeTrue)
		})

		Convey("Fails with InvalidPath on empty input", func() {
			So(errors.Is(fs.Mkdir(""), ErrInvalidPath), ShouldBeTrue)
		})

		Convey("Resolves relative paths against cwd", func() {
			So(fs.Mkdir("/docs"), ShouldBeNil)
			So(fs.Cd("docs"), ShouldBeNil)
			So(fs.Mkdir("sub"), ShouldBeNil)
			So(fs.Exists("/docs/sub"), ShouldBeTrue)
		})

		Convey("Refuses to create beneath a tracked file", func() {
			So(fs.Mkfile("/a", nil), ShouldBeNil)

			So(errors.Is(fs.Mkdir("/a/b"), ErrInvalidPath), ShouldBeTrue)
			So(errors.Is(fs.Mkdir("/a/b/c"), ErrInvalidPath), ShouldBeTrue)
			So(fs.Exists("/a/b"), ShouldBeFalse)
			So(fs.Exists("/a/b/c"), ShouldBeFalse)
		})
	})
}

func TestDirFSMkfile(t *testing.T) {
	Convey("Mkfile", t, func() {
		fs, host := newTestDirFS("/vfs")

		Convey("Creates the file and auto-creates missing parents", func() {
			So(fs.Mkfile("/docs/note.txt", []byte("Hello")), ShouldBeNil)

			So(fs.Exists("/docs"), ShouldBeTrue)
			So(lo.Must(fs.IsDir("/docs")), ShouldBeTrue)
			So(lo.Must(fs.Read("/docs/note.txt")), ShouldResemble, []byte("Hello"))
			So(lo.Must(host.ReadFile("/vfs/docs/note.txt")), ShouldResemble, []byte("Hello"))
		})

		Convey("Truncates an existing file by default", func() {
			So(fs.Mkfile("/f.txt", []byte("first")), ShouldBeNil)
			So(fs.Mkfile("/f.txt", nil), ShouldBeNil)
			So(lo.Must(fs.Read("/f.txt")), ShouldBeEmpty)
		})

		Convey("Fails on an existing file when strict creation is enabled", func() {
			fs.SetStrictCreate(true)
			So(fs.Mkfile("/f.txt", []byte("first")), ShouldBeNil)
			err := fs.Mkfile("/f.txt", []byte("second"))
			So(errors.Is(err, ErrAlreadyExists), ShouldBeTrue)
		})

		Convey("Fails when the target is a tracked directory", func() {
			So(fs.Mkdir("/dir"), ShouldBeNil)
			So(errors.Is(fs.Mkfile("/dir", nil), ErrIsDirectory), ShouldBeTrue)
		})

		Convey("Fails with InvalidPath on empty input", func() {
			So(errors.Is(fs.Mkfile("", nil), ErrInvalidPath), ShouldBeTrue)
		})

		Convey("Refuses a parent that is a tracked file", func() {
			So(fs.Mkfile("/a", nil), ShouldBeNil)

			So(errors.Is(fs.Mkfile("/a/c.txt", []byte("x")), ErrInvalidPath), ShouldBeTrue)
			So(errors.Is(fs.Mkfile("/a/deep/c.txt", nil), ErrInvalidPath), ShouldBeTrue)
			So(fs.Exists("/a/c.txt"), ShouldBeFalse)
			So(fs.Exists("/a/deep"), ShouldBeFalse)
		})
	})
}

func TestDirFSContentOps(t *testing.T) {
	Convey("Read / Write / Append", t, func() {
		fs, _ := newTestDirFS("/vfs")
		So(fs.Mkfile("/note.txt", []byte("Hello")), ShouldBeNil)

		Convey("Read returns the full content", func() {
			So(lo.Must(fs.Read("/note.txt")), ShouldResemble, []byte("Hello"))
		})

		Convey("Read of an empty file yields an empty slice", func() {
			So(fs.Mkfile("/empty", nil), ShouldBeNil)
			So(lo.Must(fs.Read("/empty")), ShouldBeEmpty)
		})

		Convey("Write replaces the content", func() {
			So(fs.Write("/note.txt", []byte("World")), ShouldBeNil)
			So(lo.Must(fs.Read("/note.txt")), ShouldResemble, []byte("World"))
		})

		Convey("Append extends the content", func() {
			So(fs.Append("/note.txt", []byte(", World")), ShouldBeNil)
			So(lo.Must(fs.Read("/note.txt")), ShouldResemble, []byte("Hello, World"))
		})

		Convey("All three fail with NotFound for absent paths", func() {
			_, err := fs.Read("/missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(fs.Write("/missing", nil), ErrNotFound), ShouldBeTrue)
			So(errors.Is(fs.Append("/missing", nil), ErrNotFound), ShouldBeTrue)
		})

		Convey("All three fail with IsADirectory for directories", func() {
			So(fs.Mkdir("/dir"), ShouldBeNil)
			_, err := fs.Read("/dir")
			So(errors.Is(err, ErrIsDirectory), ShouldBeTrue)
			So(errors.Is(fs.Write("/dir", nil), ErrIsDirectory), ShouldBeTrue)
			So(errors.Is(fs.Append("/dir", nil), ErrIsDirectory), ShouldBeTrue)
		})
	})
}

func TestDirFSNavigation(t *testing.T) {
	Convey("Navigation and queries", t, func() {
		fs, _ := newTestDirFS("/vfs")
		So(fs.Mkfile("/project/main.rs", nil), ShouldBeNil)
		So(fs.Mkfile("/project/src/lib.rs", nil), ShouldBeNil)

		Convey("Cd updates cwd and rejects absent targets", func() {
			So(fs.Cd("/project"), ShouldBeNil)
			So(fs.Cwd(), ShouldEqual, "/project")

			So(fs.Cd("src"), ShouldBeNil)
			So(fs.Cwd(), ShouldEqual, "/project/src")

			So(fs.Cd(".."), ShouldBeNil)
			So(fs.Cwd(), ShouldEqual, "/project")

			So(errors.Is(fs.Cd("/nowhere"), ErrNotFound), ShouldBeTrue)
		})

		Convey("Ls returns direct children only", func() {
			So(lo.Must(fs.Ls("/project")), ShouldResemble, []string{"/project/main.rs", "/project/src"})
		})

		Convey("Ls on a file yields the file itself", func() {
			So(lo.Must(fs.Ls("/project/main.rs")), ShouldResemble, []string{"/project/main.rs"})
		})

		Convey("Tree returns the full descendant set", func() {
			So(lo.Must(fs.Tree("/project")), ShouldResemble, []string{"/project/main.rs", "/project/src", "/project/src/lib.rs"})
		})

		Convey("Tree on a file yields nothing", func() {
			So(lo.Must(fs.Tree("/project/main.rs")), ShouldBeEmpty)
		})

		Convey("Ls and Tree fail with NotFound for absent targets", func() {
			_, err := fs.Ls("/nowhere")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			_, err = fs.Tree("/nowhere")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("IsDir / IsFile report kinds and fail for absent paths", func() {
			So(lo.Must(fs.IsDir("/project")), ShouldBeTrue)
			So(lo.Must(fs.IsFile("/project/main.rs")), ShouldBeTrue)
			_, err := fs.IsDir("/nowhere")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Find ranks fuzzy matches over tracked paths", func() {
			matches := fs.Find("librs")
			So(matches, ShouldContain, "/project/src/lib.rs")
		})
	})
}

func TestDirFSRm(t *testing.T) {
	Convey("Rm", t, func() {
		fs, host := newTestDirFS("/vfs")
		So(fs.Mkdir("/a/b/c"), ShouldBeNil)
		So(fs.Mkfile("/a/file.txt", []byte("x")), ShouldBeNil)

		Convey("Removes a directory with its whole subtree", func() {
			So(fs.Rm("/a"), ShouldBeNil)

			for _, p := range []string{"/a", "/a/b", "/a/b/c", "/a/file.txt"} {
				So(fs.Exists(p), ShouldBeFalse)
			}
			So(lo.Must(host.DirExists("/vfs/a")), ShouldBeFalse)
		})

		Convey("Removes a single file", func() {
			So(fs.Rm("/a/file.txt"), ShouldBeNil)
			So(fs.Exists("/a/file.txt"), ShouldBeFalse)
			So(fs.Exists("/a/b"), ShouldBeTrue)
		})

		Convey("The root can never be removed", func() {
			So(errors.Is(fs.Rm("/"), ErrInvalidPath), ShouldBeTrue)
			So(fs.Cd("/a"), ShouldBeNil)
			So(errors.Is(fs.Rm("../.."), ErrInvalidPath), ShouldBeTrue)
		})

		Convey("Fails with InvalidPath on empty input", func() {
			So(errors.Is(fs.Rm(""), ErrInvalidPath), ShouldBeTrue)
		})

		Convey("Fails with NotFound for absent paths", func() {
			So(errors.Is(fs.Rm("/nowhere"), ErrNotFound), ShouldBeTrue)
		})

		Convey("Succeeds when the host artifact vanished out-of-band", func() {
			So(host.RemoveAll("/vfs/a/file.txt"), ShouldBeNil)
			So(fs.Rm("/a/file.txt"), ShouldBeNil)
			So(fs.Exists("/a/file.txt"), ShouldBeFalse)
		})
	})
}

func TestDirFSAddForget(t *testing.T) {
	Convey("Add and Forget", t, func() {
		fs, host := newTestDirFS("/vfs")

		Convey("Add adopts an out-of-band host subtree", func() {
			lo.Must0(host.MkdirAll("/vfs/imported/deep", 0o755))
			lo.Must0(host.WriteFile("/vfs/imported/deep/data.bin", []byte("raw"), 0o644))

			So(fs.Exists("/imported"), ShouldBeFalse)
			So(fs.Add("/imported"), ShouldBeNil)

			So(lo.Must(fs.IsDir("/imported/deep")), ShouldBeTrue)
			So(lo.Must(fs.IsFile("/imported/deep/data.bin")), ShouldBeTrue)
			So(lo.Must(fs.Read("/imported/deep/data.bin")), ShouldResemble, []byte("raw"))
		})

		Convey("Add fails when the host artifact is absent", func() {
			So(errors.Is(fs.Add("/ghost"), ErrNotFound), ShouldBeTrue)
		})

		Convey("Forget untracks a subtree without touching the host", func() {
			So(fs.Mkfile("/keep/me.txt", []byte("x")), ShouldBeNil)
			So(fs.Forget("/keep"), ShouldBeNil)

			So(fs.Exists("/keep"), ShouldBeFalse)
			So(fs.Exists("/keep/me.txt"), ShouldBeFalse)
			So(lo.Must(host.Exists("/vfs/keep/me.txt")), ShouldBeTrue)
		})

		Convey("Forget rejects the root and absent paths", func() {
			So(errors.Is(fs.Forget("/"), ErrInvalidPath), ShouldBeTrue)
			So(errors.Is(fs.Forget("/nowhere"), ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestDirFSCleanup(t *testing.T) {
	Convey("Cleanup", t, func() {
		fs, host := newTestDirFS("/vfs")
		So(fs.Mkdir("/a/b"), ShouldBeNil)
		So(fs.Mkfile("/a/b/f.txt", []byte("x")), ShouldBeNil)
		So(fs.Mkfile("/top.txt", nil), ShouldBeNil)

		Convey("Removes everything but the root, deepest first", func() {
			So(fs.Cleanup(), ShouldBeTrue)

			So(fs.Exists("/"), ShouldBeTrue)
			So(lo.Must(fs.Tree("/")), ShouldBeEmpty)
			So(lo.Must(host.DirExists("/vfs")), ShouldBeTrue)
			So(lo.Must(host.Exists("/vfs/a")), ShouldBeFalse)
			So(lo.Must(host.Exists("/vfs/top.txt")), ShouldBeFalse)
		})

		Convey("Resets a cwd that pointed into the removed tree", func() {
			So(fs.Cd("/a/b"), ShouldBeNil)
			So(fs.Cleanup(), ShouldBeTrue)
			So(fs.Cwd(), ShouldEqual, "/")
		})

		Convey("A read-only port fails the pass but keeps entries tracked", func() {
			fs.fs = afero.Afero{Fs: afero.NewReadOnlyFs(fs.fs.Fs)}

			So(fs.Cleanup(), ShouldBeFalse)
			So(fs.Exists("/a/b/f.txt"), ShouldBeTrue)
		})
	})
}

func TestDirFSTeardown(t *testing.T) {
	Convey("Close with auto-clean", t, func() {
		Convey("Removes created root parents in reverse creation order", func() {
			backend := afero.NewMemMapFs()
			fs := lo.Must(NewFs("/x/y/z", backend))
			fs.SetAutoClean(true)
			So(fs.Mkfile("/inside.txt", []byte("data")), ShouldBeNil)

			So(fs.Close(), ShouldBeNil)

			host := afero.Afero{Fs: backend}
			for _, p := range []string{"/x/y/z/inside.txt", "/x/y/z", "/x/y", "/x"} {
				So(lo.Must(host.Exists(p)), ShouldBeFalse)
			}
		})

		Convey("Pre-existing directories are never touched", func() {
			backend := afero.NewMemMapFs()
			host := afero.Afero{Fs: backend}
			lo.Must0(backend.MkdirAll("/x", 0o755))

			fs := lo.Must(NewFs("/x/y/z", backend))
			fs.SetAutoClean(true)
			So(fs.Mkfile("/inside.txt", nil), ShouldBeNil)
			So(fs.Close(), ShouldBeNil)

			So(lo.Must(host.DirExists("/x")), ShouldBeTrue)
			So(lo.Must(host.Exists("/x/y")), ShouldBeFalse)
		})

		Convey("Close is idempotent", func() {
			fs, _ := newTestDirFS("/once")
			fs.SetAutoClean(true)
			So(fs.Close(), ShouldBeNil)
			So(fs.Close(), ShouldBeNil)
		})

		Convey("With auto-clean disabled nothing is removed", func() {
			backend := afero.NewMemMapFs()
			fs := lo.Must(NewFs("/kept", backend))
			fs.SetAutoClean(false)
			So(fs.Mkfile("/file.txt", []byte("x")), ShouldBeNil)
			So(fs.Close(), ShouldBeNil)

			host := afero.Afero{Fs: backend}
			So(lo.Must(host.Exists("/kept/file.txt")), ShouldBeTrue)
		})
	})
}

func TestDirFSInvariants(t *testing.T) {
	Convey("After arbitrary operation sequences", t, func() {
		fs, _ := newTestDirFS("/vfs")
		So(fs.Mkdir("/a/b/c"), ShouldBeNil)
		So(fs.Mkfile("/a/file.txt", nil), ShouldBeNil)
		So(fs.Mkfile("deep/nested/file.bin", []byte{0x00}), ShouldBeNil)
		So(fs.Rm("/a/b"), ShouldBeNil)

		Convey("Every non-root path has a tracked directory parent", func() {
			for _, p := range lo.Must(fs.Tree("/")) {
				parent := vpath.Parent(p)
				So(fs.Exists(parent), ShouldBeTrue)
				So(lo.Must(fs.IsDir(parent)), ShouldBeTrue)
			}
		})

		Convey("The root is always present as a directory", func() {
			So(fs.Exists("/"), ShouldBeTrue)
			So(lo.Must(fs.IsDir("/")), ShouldBeTrue)
		})
	})
}
