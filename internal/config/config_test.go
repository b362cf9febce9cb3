//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package config_test

import (
	"bytes"
	"testing"

	"github.com/alexflint/go-arg"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dircpy/internal/config"
	"github.com/joe/dircpy/pkg/filesystem"
)

func TestParseAllFlags(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.Parse([]string{
		"-s", "/src", "-d", "/dst",
		"-o", "-n", "-z",
		"-x", "tmp", "-x", ".git",
		"-i", "txt",
		"-g", "**/*.txt",
		"-v", "--log-file", "/tmp/dircpy.log",
	}, &bytes.Buffer{})

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(*cfg).Should(Equal(config.Config{
		SourcePath:             "/src",
		DestPath:               "/dst",
		Overwrite:              true,
		OverwriteIfNewer:       true,
		OverwriteIfSizeDiffers: true,
		Exclude:                []string{"tmp", ".git"},
		Include:                []string{"txt"},
		Pattern:                "**/*.txt",
		Verbose:                true,
		LogFile:                "/tmp/dircpy.log",
	}))
}

func TestParseLongFlags(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.Parse([]string{
		"--source", "/src", "--dest", "/dst", "--overwrite-if-newer", "--exclude", "cache",
	}, &bytes.Buffer{})

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg.OverwriteIfNewer).Should(BeTrue())
	g.Expect(cfg.Overwrite).Should(BeFalse())
	g.Expect(cfg.Exclude).Should(Equal([]string{"cache"}))
}

func TestParseRequiresPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no arguments", args: nil, want: config.ErrMissingSource},
		{name: "no destination", args: []string{"-s", "/src"}, want: config.ErrMissingDest},
		{name: "no source", args: []string{"-d", "/dst"}, want: config.ErrMissingSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := config.Parse(tt.args, &bytes.Buffer{})
			g.Expect(err).Should(MatchError(tt.want))
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"-s", "/a", "-d", "/b", "--bogus"}, want: "invalid arguments"},
		{name: "invalid glob", args: []string{"-s", "/a", "-d", "/b", "-g", "[oops"}, want: "invalid glob pattern"},
		{name: "sftp without user", args: []string{"-s", "sftp://host/a", "-d", "/b"}, want: "invalid source path"},
		{name: "sftp without host", args: []string{"-s", "/a", "-d", "sftp://user@/b"}, want: "invalid destination path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := config.Parse(tt.args, &bytes.Buffer{})
			g.Expect(err).Should(MatchError(ContainSubstring(tt.want)))
		})
	}
}

func TestParseSFTPURLs(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.Parse([]string{
		"-s", "sftp://user@host:2222/data", "-d", "/backup",
	}, &bytes.Buffer{})

	g.Expect(err).ShouldNot(HaveOccurred())

	parsed, err := filesystem.ParsePath(cfg.SourcePath)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(parsed.IsRemote).Should(BeTrue())
	g.Expect(parsed.Port).Should(Equal(2222))
}

func TestParseHelpAndVersion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var out bytes.Buffer
	_, err := config.Parse([]string{"--help"}, &out)
	g.Expect(err).Should(MatchError(arg.ErrHelp))
	g.Expect(out.String()).Should(ContainSubstring("--overwrite-if-newer"))

	out.Reset()
	_, err = config.Parse([]string{"--version"}, &out)
	g.Expect(err).Should(MatchError(arg.ErrVersion))
	g.Expect(out.String()).Should(ContainSubstring("dircpy 1.0.0"))
}
