package dircpy_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/joe/dircpy/pkg/dircpy"
	"github.com/joe/dircpy/pkg/filesystem"
)

var _ = Describe("Copy", func() {
	var src, dst string

	BeforeEach(func() {
		base := GinkgoT().TempDir()
		src = filepath.Join(base, "src")
		dst = filepath.Join(base, "dst")
		Expect(os.Mkdir(src, 0o755)).To(Succeed())
	})

	Describe("round trip", func() {
		It("reproduces structure and contents in an empty destination", func() {
			tree := map[string]string{
				"a.txt":             "alpha",
				"empty/":            "",
				"nested/b.txt":      "bravo",
				"nested/deep/c.bin": "\x00\x01\x02",
				"nested/deep/d/":    "",
			}
			writeTree(src, tree)

			Expect(dircpy.Copy(src, dst)).To(Succeed())
			Expect(readTree(dst)).To(Equal(readTree(src)))
		})

		It("creates missing destination ancestors", func() {
			writeTree(src, map[string]string{"a.txt": "alpha"})
			target := filepath.Join(dst, "x", "y")

			Expect(dircpy.Copy(src, target)).To(Succeed())
			Expect(filepath.Join(target, "a.txt")).To(BeARegularFile())
		})

		It("preserves modification times and permissions", func() {
			writeTree(src, map[string]string{"a.txt": "alpha"})
			mtime := time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)
			Expect(os.Chtimes(filepath.Join(src, "a.txt"), mtime, mtime)).To(Succeed())
			Expect(os.Chmod(filepath.Join(src, "a.txt"), 0o600)).To(Succeed())

			Expect(dircpy.Copy(src, dst)).To(Succeed())

			info, err := os.Stat(filepath.Join(dst, "a.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ModTime()).To(BeTemporally("==", mtime))

			if runtime.GOOS != "windows" {
				Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
			}
		})

		It("does not modify the source tree", func() {
			writeTree(src, map[string]string{"a.txt": "alpha", "d/b.txt": "bravo"})
			before := readTree(src)

			Expect(dircpy.Copy(src, dst)).To(Succeed())
			Expect(readTree(src)).To(Equal(before))
		})
	})

	Describe("without overwrite", func() {
		It("is idempotent and leaves existing files untouched", func() {
			writeTree(src, map[string]string{"a.txt": "alpha", "d/b.txt": "bravo"})
			Expect(dircpy.Copy(src, dst)).To(Succeed())

			Expect(os.WriteFile(filepath.Join(dst, "a.txt"), []byte("local edit"), 0o644)).To(Succeed())
			before := readTree(dst)

			stats, err := dircpy.NewBuilder(src, dst).Execute()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.FilesCopied).To(BeZero())
			Expect(stats.FilesSkipped).To(Equal(2))
			Expect(readTree(dst)).To(Equal(before))
		})
	})

	Describe("filters", func() {
		It("lets exclude win", func() {
			writeTree(src, map[string]string{"a/keep.txt": "k", "a/skip.txt": "s"})

			Expect(dircpy.CopyAdvanced(src, dst, false, false, false, []string{"skip"}, nil)).To(Succeed())

			Expect(filepath.Join(dst, "a", "keep.txt")).To(BeARegularFile())
			Expect(filepath.Join(dst, "a", "skip.txt")).NotTo(BeAnExistingFile())
		})

		It("lets exclude win over a matching include", func() {
			writeTree(src, map[string]string{"skip.txt": "s", "keep.txt": "k"})

			Expect(dircpy.CopyAdvanced(src, dst, false, false, false,
				[]string{"skip"}, []string{"txt"})).To(Succeed())

			Expect(readTree(dst)).To(Equal(map[string]string{"keep.txt": "k"}))
		})

		It("restricts the copied files to include matches", func() {
			writeTree(src, map[string]string{"x.log": "x", "y.txt": "y"})

			Expect(dircpy.CopyAdvanced(src, dst, false, false, false, nil, []string{"txt"})).To(Succeed())

			Expect(readTree(dst)).To(Equal(map[string]string{"y.txt": "y"}))
		})

		It("reaches included files inside non-matching directories", func() {
			writeTree(src, map[string]string{"docs/readme.txt": "r", "docs/logo.png": "p"})

			Expect(dircpy.NewBuilder(src, dst).WithIncludeFilter(".txt").Run()).To(Succeed())

			Expect(readTree(dst)).To(Equal(map[string]string{"docs/": "", "docs/readme.txt": "r"}))
		})

		It("treats directory exclusion as final", func() {
			writeTree(src, map[string]string{"logs/important.txt": "i", "main.txt": "m"})

			Expect(dircpy.CopyAdvanced(src, dst, false, false, false,
				[]string{"logs"}, []string{"important"})).To(Succeed())

			Expect(filepath.Join(dst, "logs")).NotTo(BeAnExistingFile())
		})

		It("matches against the path relative to the source root", func() {
			writeTree(src, map[string]string{"a.txt": "a"})

			// "src" appears in the absolute source path but not in any relative path
			Expect(dircpy.NewBuilder(src, dst).WithExcludeFilter("src").Run()).To(Succeed())

			Expect(filepath.Join(dst, "a.txt")).To(BeARegularFile())
		})

		It("applies the glob pattern to files", func() {
			writeTree(src, map[string]string{"clips/a.MOV": "a", "clips/b.mp4": "b"})

			Expect(dircpy.NewBuilder(src, dst).WithPattern("**/*.mov").Run()).To(Succeed())

			Expect(readTree(dst)).To(Equal(map[string]string{"clips/": "", "clips/a.MOV": "a"}))
		})
	})

	Describe("overwrite policies", func() {
		var old, fresh time.Time

		BeforeEach(func() {
			old = time.Now().Add(-2 * time.Hour).Truncate(time.Second)
			fresh = time.Now().Add(-1 * time.Hour).Truncate(time.Second)
		})

		setFile := func(root, rel, content string, mtime time.Time) {
			writeTree(root, map[string]string{rel: content})
			Expect(os.Chtimes(filepath.Join(root, rel), mtime, mtime)).To(Succeed())
		}

		contents := func(root, rel string) string {
			data, err := os.ReadFile(filepath.Join(root, rel))
			Expect(err).NotTo(HaveOccurred())

			return string(data)
		}

		It("replaces an older destination with overwrite-if-newer", func() {
			setFile(src, "f", "new", fresh)
			setFile(dst, "f", "old", old)

			Expect(dircpy.NewBuilder(src, dst).OverwriteIfNewer(true).Run()).To(Succeed())
			Expect(contents(dst, "f")).To(Equal("new"))
		})

		It("keeps a newer destination with overwrite-if-newer", func() {
			setFile(src, "f", "source", old)
			setFile(dst, "f", "dest", fresh)

			Expect(dircpy.NewBuilder(src, dst).OverwriteIfNewer(true).Run()).To(Succeed())
			Expect(contents(dst, "f")).To(Equal("dest"))
		})

		It("replaces a differently sized destination even when it is newer", func() {
			setFile(src, "g", "longer content", old)
			setFile(dst, "g", "short", fresh)

			Expect(dircpy.NewBuilder(src, dst).OverwriteIfSizeDiffers(true).Run()).To(Succeed())
			Expect(contents(dst, "g")).To(Equal("longer content"))
		})

		It("keeps a same sized destination with overwrite-if-size-differs", func() {
			setFile(src, "g", "aaaa", fresh)
			setFile(dst, "g", "bbbb", old)

			Expect(dircpy.NewBuilder(src, dst).OverwriteIfSizeDiffers(true).Run()).To(Succeed())
			Expect(contents(dst, "g")).To(Equal("bbbb"))
		})

		It("combines enabled policies with OR", func() {
			// Same size, so only the mtime comparison can trigger
			setFile(src, "h", "1234", fresh)
			setFile(dst, "h", "abcd", old)

			Expect(dircpy.NewBuilder(src, dst).
				OverwriteIfSizeDiffers(true).
				OverwriteIfNewer(true).
				Run()).To(Succeed())
			Expect(contents(dst, "h")).To(Equal("1234"))
		})

		It("replaces unconditionally with overwrite", func() {
			setFile(src, "f", "same", old)
			setFile(dst, "f", "same", fresh)
			Expect(os.WriteFile(filepath.Join(dst, "f"), []byte("edit"), 0o644)).To(Succeed())

			Expect(dircpy.NewBuilder(src, dst).Overwrite(true).Run()).To(Succeed())
			Expect(contents(dst, "f")).To(Equal("same"))
		})
	})

	Describe("failures", func() {
		It("reports a missing source as NotFound and creates nothing", func() {
			missing := filepath.Join(src, "does", "not", "exist")
			err := dircpy.Copy(missing, dst)

			Expect(errors.Is(err, dircpy.ErrNotFound)).To(BeTrue())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			Expect(strings.Count(err.Error(), missing)).To(Equal(1))
			Expect(dircpy.KindOf(err)).To(Equal(dircpy.KindNotFound))
			Expect(dst).NotTo(BeAnExistingFile())
		})

		It("reports a source file as an I/O failure", func() {
			writeTree(src, map[string]string{"a.txt": "a"})

			err := dircpy.Copy(filepath.Join(src, "a.txt"), dst)
			Expect(errors.Is(err, dircpy.ErrIOFailure)).To(BeTrue())
		})

		It("fails when the destination root is a file", func() {
			writeTree(src, map[string]string{"a.txt": "a"})
			Expect(os.WriteFile(dst, []byte("in the way"), 0o644)).To(Succeed())

			err := dircpy.Copy(src, dst)
			Expect(dircpy.KindOf(err)).To(Equal(dircpy.KindIOFailure))
		})

		It("fails when a destination directory collides with a file", func() {
			writeTree(src, map[string]string{"d/a.txt": "a"})
			writeTree(dst, map[string]string{"d": "in the way"})

			err := dircpy.Copy(src, dst)
			Expect(errors.Is(err, dircpy.ErrIOFailure)).To(BeTrue())
		})

		It("fails when a file would replace a destination directory", func() {
			writeTree(src, map[string]string{"a": "file"})
			writeTree(dst, map[string]string{"a/": ""})

			err := dircpy.NewBuilder(src, dst).Overwrite(true).Run()
			Expect(errors.Is(err, dircpy.ErrIOFailure)).To(BeTrue())
		})

		It("rejects paths that are not valid UTF-8", func() {
			err := dircpy.Copy(src+"\xff", dst)

			Expect(errors.Is(err, dircpy.ErrInvalidArgument)).To(BeTrue())
			Expect(dst).NotTo(BeAnExistingFile())
		})

		It("rejects filter patterns that are not valid UTF-8", func() {
			err := dircpy.CopyAdvanced(src, dst, false, false, false, []string{"\xc3\x28"}, nil)

			Expect(dircpy.KindOf(err)).To(Equal(dircpy.KindInvalidArgument))
		})

		It("rejects copying a directory onto itself", func() {
			err := dircpy.Copy(src, src)

			Expect(errors.Is(err, dircpy.ErrInvalidArgument)).To(BeTrue())
		})

		It("aborts on the first failure and keeps completed work", func() {
			modTime := time.Now()
			mock := filesystem.NewMockFileSystem()
			mock.AddFile("/src/a.txt", []byte("a"), modTime)
			mock.AddFile("/src/b.txt", []byte("b"), modTime)
			mock.AddFile("/src/c.txt", []byte("c"), modTime)
			mock.FailOn("read", "/src/b.txt", errors.New("input/output error"))

			stats, err := dircpy.NewBuilder("/src", "/dst").WithFileSystems(mock, mock).Execute()

			Expect(errors.Is(err, dircpy.ErrIOFailure)).To(BeTrue())
			Expect(stats.FilesCopied).To(Equal(1))
			Expect(mock.Exists("/dst/a.txt")).To(BeTrue())
			Expect(mock.Exists("/dst/c.txt")).To(BeFalse())
		})
	})

	Describe("destination inside source", func() {
		It("does not copy the destination into itself", func() {
			writeTree(src, map[string]string{"a.txt": "a", "sub/b.txt": "b"})
			inner := filepath.Join(src, "backup")

			Expect(dircpy.Copy(src, inner)).To(Succeed())
			Expect(readTree(inner)).To(Equal(map[string]string{
				"a.txt": "a", "sub/": "", "sub/b.txt": "b",
			}))
		})

		It("does the same on a shared non-local filesystem", func() {
			mock := filesystem.NewMockFileSystem()
			mock.AddFile("/data/a.txt", []byte("a"), time.Now())

			Expect(dircpy.NewBuilder("/data", "/data/copy").WithFileSystems(mock, mock).Run()).To(Succeed())
			Expect(mock.ListUnder("/data/copy")).To(Equal([]string{"a.txt"}))
		})
	})

	Describe("symlinks", func() {
		BeforeEach(func() {
			if runtime.GOOS == "windows" {
				Skip("symlinks require privileges on windows")
			}
		})

		It("copies the content of links to files and skips other links", func() {
			writeTree(src, map[string]string{"target.txt": "t", "dir/inner.txt": "i"})
			Expect(os.Symlink("target.txt", filepath.Join(src, "file-link"))).To(Succeed())
			Expect(os.Symlink("dir", filepath.Join(src, "dir-link"))).To(Succeed())
			Expect(os.Symlink("missing", filepath.Join(src, "dangling"))).To(Succeed())

			Expect(dircpy.Copy(src, dst)).To(Succeed())

			Expect(readTree(dst)).To(Equal(map[string]string{
				"dir/": "", "dir/inner.txt": "i", "file-link": "t", "target.txt": "t",
			}))
		})
	})
})

var _ = Describe("Job", func() {
	It("re-reads the source tree on every run", func() {
		mock := filesystem.NewMockFileSystem()
		mock.AddFile("/src/a.txt", []byte("a"), time.Now())

		job := dircpy.NewBuilder("/src", "/dst").WithFileSystems(mock, mock).Job()
		Expect(job.Run()).To(Succeed())

		mock.AddFile("/src/b.txt", []byte("b"), time.Now())
		Expect(job.Run()).To(Succeed())

		Expect(mock.ListUnder("/dst")).To(Equal([]string{"a.txt", "b.txt"}))
	})

	It("copies between different filesystems", func() {
		srcFS := filesystem.NewMockFileSystem()
		srcFS.AddFile("/export/docs/a.txt", []byte("a"), time.Now())
		dstFS := filesystem.NewMockFileSystem()

		stats, err := dircpy.Job{Source: "/export", Dest: "/import", SourceFS: srcFS, DestFS: dstFS}.Execute()

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.DirsCreated).To(Equal(2))
		Expect(stats.FilesCopied).To(Equal(1))
		Expect(stats.BytesCopied).To(BeEquivalentTo(1))
		Expect(dstFS.ListUnder("/import")).To(Equal([]string{"docs", "docs/a.txt"}))
	})

	It("logs the read and write time of each copied file", func() {
		mock := filesystem.NewMockFileSystem()
		mock.AddFile("/src/a.txt", []byte("alpha"), time.Now())

		var logs bytes.Buffer
		logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

		Expect(dircpy.NewBuilder("/src", "/dst").WithFileSystems(mock, mock).WithLogger(logger).Run()).To(Succeed())

		var copied map[string]any
		for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
			var entry map[string]any
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())
			if entry["message"] == "copied" {
				copied = entry
			}
		}

		Expect(copied).To(HaveKeyWithValue("path", "a.txt"))
		Expect(copied).To(HaveKeyWithValue("bytes", BeEquivalentTo(5)))
		Expect(copied).To(HaveKey("read"))
		Expect(copied).To(HaveKey("write"))
	})
})
