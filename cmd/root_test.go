package cmd

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanq16/discord-installer/internal/action"
	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/help"
	"github.com/tanq16/discord-installer/internal/installer"
	"github.com/tanq16/discord-installer/internal/linker"
	"github.com/tanq16/discord-installer/internal/utils"
)

// Tests here share the global logger, so none of them run in parallel.

func tarball(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	body := "#!/bin/sh\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "Discord/", Typeflag: tar.TypeDir, Mode: 0755}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "Discord/Discord", Typeflag: tar.TypeReg, Mode: 0755, Size: int64(len(body))}))
	_, err := tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestRunDownloadFollowsRedirect(t *testing.T) {
	payload := tarball(t)
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/download/canary":
			assert.Equal(t, "platform=linux&format=tar.gz", r.URL.RawQuery)
			assert.Equal(t, "custom-agent", r.UserAgent())
			http.Redirect(w, r, server.URL+"/files/canary.tar.gz", http.StatusFound)
		case "/files/canary.tar.gz":
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	var out bytes.Buffer
	err := run(context.Background(), []string{
		"--base-url", server.URL, "--user-agent=custom-agent", "--timeout", "30s",
		"-b", "canary", "-f", "canary.tar.gz", "-d", dir,
	}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "canary.tar.gz"))
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.Contains(t, out.String(), "Redirecting to "+server.URL+"/files/canary.tar.gz")
}

func TestRunInstallThenLink(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "discord.tar.gz")
	require.NoError(t, os.WriteFile(archive, tarball(t), 0644))
	installDir := filepath.Join(root, "opt", "discord")
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.Mkdir(binDir, 0755))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--install", "--file", archive, "--directory", installDir}, &out))
	require.FileExists(t, filepath.Join(installDir, "Discord"))

	require.NoError(t, run(context.Background(), []string{"-a", "link", "-d", installDir, "-s", binDir}, &out))
	target, err := os.Readlink(filepath.Join(binDir, "discord"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(installDir, "Discord"), target)

	err = run(context.Background(), []string{"--link", "-b", "ptb", "-d", installDir, "-s", binDir}, &out)
	require.ErrorIs(t, err, linker.ErrNoExecutable)
}

func TestRunInstallRequiresFileValue(t *testing.T) {
	err := run(context.Background(), []string{"--install"}, &bytes.Buffer{})
	require.ErrorIs(t, err, installer.ErrMissingFile)

	err = run(context.Background(), []string{"--install", "--file"}, &bytes.Buffer{})
	require.ErrorIs(t, err, args.ErrNotString)
}

func TestInstallDirectoryPrecedence(t *testing.T) {
	dir, err := installDirectory(args.Parse([]string{"-d", "/c", "--install-directory", "/b", "--directory", "/a"}), build.Stable)
	require.NoError(t, err)
	require.Equal(t, "/a", dir)

	dir, err = installDirectory(args.Parse([]string{"-d", "/c", "--install-directory", "/b"}), build.Stable)
	require.NoError(t, err)
	require.Equal(t, "/b", dir)

	dir, err = installDirectory(args.Parse([]string{"-d", "/c"}), build.Stable)
	require.NoError(t, err)
	require.Equal(t, "/c", dir)

	dir, err = installDirectory(args.Parse(nil), build.PTB)
	require.NoError(t, err)
	require.Equal(t, "/opt/discordptb", dir)
}

func TestRunVersions(t *testing.T) {
	root := t.TempDir()
	resources := filepath.Join(root, build.PTB.InstallDir(), "resources")
	require.NoError(t, os.MkdirAll(resources, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "build_info.json"), []byte(`{"version":"0.0.77"}`), 0644))

	versionsRoot = root
	t.Cleanup(func() { versionsRoot = "" })

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-a", "versions", "-b", "ptb"}, &out))
	require.Equal(t, "Current PTB Version: 0.0.77\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"--action=versions", "--format", "json"}, &out))
	require.Contains(t, out.String(), `"version": "Not installed"`)

	err := run(context.Background(), []string{"-a", "versions", "-b", "beta"}, &out)
	require.ErrorIs(t, err, build.ErrInvalidBuild)
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--help", "-s", "link"}, &out))
	require.True(t, strings.HasPrefix(out.String(), "link\n"))
	require.Contains(t, out.String(), "--force")

	err := run(context.Background(), []string{"--help", "--section"}, &bytes.Buffer{})
	require.ErrorIs(t, err, help.ErrInvalidSection)
}

func TestRunRejectsBadInput(t *testing.T) {
	err := run(context.Background(), []string{"-a", "destroy"}, &bytes.Buffer{})
	require.ErrorIs(t, err, action.ErrInvalidAction)
	require.Contains(t, err.Error(), "destroy")

	err = run(context.Background(), []string{"-b", "nightly"}, &bytes.Buffer{})
	require.ErrorIs(t, err, build.ErrInvalidBuild)

	err = run(context.Background(), []string{"--timeout", "soon"}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeout")
}

func TestRunUpdateKeepsFilename(t *testing.T) {
	payload := tarball(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	root := t.TempDir()
	installDir := filepath.Join(root, "opt", "discord")
	require.NoError(t, os.MkdirAll(filepath.Join(installDir, "bin"), 0755))
	downloads := filepath.Join(root, "downloads")

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"-a", "update", "-d", installDir, "--filename", "update.tar.gz",
		"--download-directory", downloads, "--base-url", server.URL,
	}, &out)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(downloads, "update.tar.gz"))
	require.FileExists(t, filepath.Join(installDir, "Discord"))
}

func TestRunShortcutWithValueKeepsAction(t *testing.T) {
	// The value after --install is not the archive; --file is still required.
	err := run(context.Background(), []string{"--install", "/tmp/discord.tar.gz"}, &bytes.Buffer{})
	require.ErrorIs(t, err, installer.ErrMissingFile)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-h", "-s", "sections"}, &out))
	require.True(t, strings.HasPrefix(out.String(), "sections\n"))
}

func TestRunVersionFlag(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--version"}, &out))
	require.Contains(t, out.String(), "discord-installer "+InstallerVersion)
}

func TestRunRejectsInvalidProxy(t *testing.T) {
	err := run(context.Background(), []string{"--proxy", "http://[::1", "-d", t.TempDir()}, &bytes.Buffer{})
	require.ErrorIs(t, err, utils.ErrInvalidProxy)
}

func TestProxySettings(t *testing.T) {
	proxyURL, user, pass, err := proxySettings(args.Parse([]string{"--proxy", "http://alice:pw@proxy.local:3128"}))
	require.NoError(t, err)
	require.Equal(t, "http://proxy.local:3128", proxyURL)
	require.Equal(t, "alice", user)
	require.Equal(t, "pw", pass)

	proxyURL, user, pass, err = proxySettings(args.Parse([]string{
		"--proxy", "alice:pw@proxy.local:3128", "--proxy-username", "bob", "--proxy-password", "hunter2",
	}))
	require.NoError(t, err)
	require.Equal(t, "http://proxy.local:3128", proxyURL)
	require.Equal(t, "bob", user)
	require.Equal(t, "hunter2", pass)
}
