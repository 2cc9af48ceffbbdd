package snapshot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/vfs-kit/vfskit/vfs"
)

func TestBuild(t *testing.T) {
	Convey("Build", t, func() {
		fs := vfs.NewMap()
		So(fs.Mkfile("/project/main.go", []byte("package main")), ShouldBeNil)
		So(fs.Mkdir("/project/docs"), ShouldBeNil)

		Convey("Captures the whole subtree with kinds and sizes", func() {
			out := lo.Must(Build(fs, "/project"))

			So(out.Cwd, ShouldEqual, "/")
			So(out.Entries, ShouldResemble, []Node{
				{Path: "/project/docs", Kind: "directory"},
				{Path: "/project/main.go", Kind: "file", Size: len("package main")},
			})
		})

		Convey("Fails for an absent target", func() {
			_, err := Build(fs, "/nowhere")
			So(err, ShouldNotBeNil)
		})

		Convey("Write emits decodable JSON", func() {
			out := lo.Must(Build(fs, "/"))
			var buf bytes.Buffer
			So(out.Write(&buf), ShouldBeNil)

			var decoded Output
			So(json.Unmarshal(buf.Bytes(), &decoded), ShouldBeNil)
			So(len(decoded.Entries), ShouldEqual, 3)
		})
	})
}
