package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// DefaultSSHPort is used when an sftp:// URL has no port.
	DefaultSSHPort = 22
	// SFTPScheme is the URL prefix that selects the SFTP filesystem.
	SFTPScheme = "sftp://"
)

// Exported variables.
var (
	ErrEmptyPath       = errors.New("path is empty")
	ErrMissingSFTPHost = errors.New("SFTP URL must include host")
	ErrMissingSFTPUser = errors.New("SFTP URL must include username (sftp://user@host/path)")
)

// ParsedPath represents either a local path or an SFTP URL.
type ParsedPath struct {
	IsRemote bool

	// For local paths
	LocalPath string

	// For SFTP paths
	Host string
	Port int
	User string
	Path string // Remote path
}

// ParsePath parses a path string, detecting whether it's a local path or SFTP URL.
// SFTP URLs have the format: sftp://user@host:port/path/to/dir
// Port is optional (defaults to 22)
// Examples:
//   - sftp://joe@myserver.com/home/joe/data
//   - sftp://joe@myserver.com:2222/backups
//   - /local/path/to/files (local path)
func ParsePath(path string) (*ParsedPath, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if strings.HasPrefix(path, SFTPScheme) {
		return parseSFTPURL(path)
	}

	return &ParsedPath{
		IsRemote:  false,
		LocalPath: path,
	}, nil
}

// String renders the path back in the form ParsePath accepts.
func (p *ParsedPath) String() string {
	if !p.IsRemote {
		return p.LocalPath
	}

	remotePath := "/" + p.Path
	if p.Path == "." {
		remotePath = ""
	}

	return fmt.Sprintf("%s%s@%s:%d%s", SFTPScheme, p.User, p.Host, p.Port, remotePath)
}

// parseSFTPURL parses an SFTP URL into its components.
func parseSFTPURL(sftpURL string) (*ParsedPath, error) {
	u, err := url.Parse(sftpURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid SFTP URL: %w", err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, ErrMissingSFTPUser
	}

	host := u.Hostname()
	if host == "" {
		return nil, ErrMissingSFTPHost
	}

	port := DefaultSSHPort
	if portStr := u.Port(); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}
	}

	// SFTP path convention:
	//   sftp://user@host/path  → relative to home directory (strip leading /)
	//   sftp://user@host//path → absolute path /path (strip one /)
	//   sftp://user@host       → home directory (.)
	remotePath := u.Path

	switch {
	case remotePath == "" || remotePath == "/":
		remotePath = "."
	case strings.HasPrefix(remotePath, "//"):
		remotePath = remotePath[1:]
	default:
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &ParsedPath{
		IsRemote: true,
		Host:     host,
		Port:     port,
		User:     u.User.Username(),
		Path:     remotePath,
	}, nil
}
