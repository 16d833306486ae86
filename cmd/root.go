package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanq16/discord-installer/internal/action"
	"github.com/tanq16/discord-installer/internal/args"
	"github.com/tanq16/discord-installer/internal/build"
	"github.com/tanq16/discord-installer/internal/downloader"
	"github.com/tanq16/discord-installer/internal/output"
	"github.com/tanq16/discord-installer/internal/utils"
)

var InstallerVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   "discord-installer",
	Short: "Download, install, link, and update Discord tarball builds on Linux",
	Args:  cobra.ArbitraryArgs,
	// Flags, --version included, are parsed by internal/args so values like
	// -d keep their per-action meaning.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, argv []string) error {
		return run(cmd.Context(), argv, cmd.OutOrStdout())
	},
}

func Execute() {
	if runtime.GOOS != "linux" {
		output.PrintError("This script only works on Linux")
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
}

// run parses argv, picks the action and hands off to its runner.
func run(ctx context.Context, argv []string, out io.Writer) error {
	p := args.Parse(argv)
	utils.InitLogger(p.Flag("debug"))

	if p.Flag("version") {
		fmt.Fprintln(out, output.FHeader("discord-installer")+" "+InstallerVersion)
		return nil
	}

	act, err := action.Select(p)
	if err != nil {
		return err
	}
	logger := utils.GetLogger("cmd")
	logger.Debug().Str("op", "cmd/root").Str("action", string(act)).Msg("action selected")

	switch act {
	case action.Install:
		return runInstall(ctx, p, out)
	case action.Link:
		return runLink(p, out)
	case action.Update:
		return runUpdate(ctx, p, out)
	case action.Help:
		return runHelp(p, out)
	case action.Versions:
		return runVersions(p, out)
	default:
		return runDownload(ctx, p, out)
	}
}

func resolveBuild(p args.Parsed) (build.Channel, error) {
	name, err := p.StringOr("build", "b", build.Stable.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", build.ErrInvalidBuild, err)
	}
	return build.Parse(name)
}

// newDownloader builds the HTTP client from the global flags.
func newDownloader(p args.Parsed, out io.Writer) (*downloader.Downloader, error) {
	userAgent, err := p.StringOr("user-agent", "", utils.ToolUserAgent)
	if err != nil {
		return nil, err
	}
	proxyURL, proxyUsername, proxyPassword, err := proxySettings(p)
	if err != nil {
		return nil, err
	}
	rawTimeout, err := p.StringOr("timeout", "", "0")
	if err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(rawTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", rawTimeout, err)
	}
	baseURL, err := p.StringOr("base-url", "", utils.DefaultBaseURL)
	if err != nil {
		return nil, err
	}

	client := utils.NewHTTPClient(utils.HTTPClientConfig{
		Timeout:       timeout,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     userAgent,
	})
	d := downloader.New(client, out)
	d.BaseURL = baseURL
	return d, nil
}

// proxySettings validates --proxy and moves any credentials in it into the
// username and password, unless --proxy-username was given.
func proxySettings(p args.Parsed) (proxyURL, username, password string, err error) {
	if proxyURL, err = p.StringOr("proxy", "", ""); err != nil {
		return "", "", "", err
	}
	if username, err = p.StringOr("proxy-username", "", ""); err != nil {
		return "", "", "", err
	}
	if password, err = p.StringOr("proxy-password", "", ""); err != nil {
		return "", "", "", err
	}
	if proxyURL == "" {
		return "", username, password, nil
	}
	parsed, err := utils.ParseProxyURL(proxyURL)
	if err != nil {
		return "", "", "", err
	}
	if parsed.User != nil && username == "" {
		username = parsed.User.Username()
		if pw, set := parsed.User.Password(); set {
			password = pw
		}
	}
	parsed.User = nil
	return parsed.String(), username, password, nil
}
