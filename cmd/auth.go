package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jfmyers9/fmscrobble/internal/config"
	"github.com/jfmyers9/fmscrobble/internal/scrobbler"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	authUsername   string
	authToken      string
	authWeb        bool
	authSessionKey string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Last.fm",
	Long: `Authenticate with Last.fm to enable scrobbling.

Pick one of the supported flows:
  --username U      log in with a username and password (prompted)
  --token T         exchange a token you already authorized
  --web             request a token, authorize it in a browser, then exchange it
  --session-key K   store a session key obtained elsewhere

With no flag, the web flow is used. The resulting session key is saved to
your config file. If no API key or secret is configured you will be
prompted for them.

You can get API credentials from: https://www.last.fm/api/account/create`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Last.fm username (password is prompted)")
	authCmd.Flags().StringVar(&authToken, "token", "", "Authorized web token to exchange")
	authCmd.Flags().BoolVar(&authWeb, "web", false, "Authorize through the Last.fm website")
	authCmd.Flags().StringVar(&authSessionKey, "session-key", "", "Existing session key to store")
	authCmd.MarkFlagsMutuallyExclusive("username", "token", "web", "session-key")
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Last.fm Authentication")
	fmt.Println("======================")
	fmt.Println()

	if err := promptAPICredentials(reader, cfg); err != nil {
		return err
	}

	client, err := scrobbler.New(scrobbler.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.APISecret,
		BaseURL:   cfg.LastFM.BaseURL,
	}, setupLogger(logFile, cfg.LogLevel))
	if err != nil {
		return err
	}

	var sessionKey string
	switch {
	case authSessionKey != "":
		client.Resume(authSessionKey)
		sessionKey = client.GetSessionKey()

	case authUsername != "":
		password, err := promptPassword(reader)
		if err != nil {
			return err
		}
		fmt.Println("\nLogging in...")
		sessionKey, err = client.Login(ctx, authUsername, password)
		if err != nil {
			return err
		}
		cfg.LastFM.Username = authUsername

	case authToken != "":
		fmt.Println("Retrieving session key...")
		sessionKey, err = client.GetSession(ctx, authToken)
		if err != nil {
			return err
		}

	default:
		sessionKey, err = webAuth(ctx, reader, client)
		if err != nil {
			return err
		}
	}

	cfg.LastFM.SessionKey = sessionKey
	path, err := saveConfig(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	colorSuccess.Println("✓ Authentication successful!")
	colorSuccess.Printf("✓ Session key saved to %s\n", path)
	fmt.Println("\nYou can now use 'fmscrobble scrobble' to submit tracks.")

	return nil
}

// webAuth runs the browser authorization flow
func webAuth(ctx context.Context, reader *bufio.Reader, client *scrobbler.Client) (string, error) {
	fmt.Println("Generating authentication token...")
	token, authURL, err := client.AuthenticateWithToken(ctx)
	if err != nil {
		return "", err
	}

	fmt.Println("\nPlease visit this URL to authorize fmscrobble:")
	colorInfo.Printf("\n  %s\n\n", authURL)
	colorPrompt.Println("After authorizing, press Enter to continue...")
	_, _ = reader.ReadString('\n')

	fmt.Println("Retrieving session key...")
	return client.GetSession(ctx, token)
}

// promptAPICredentials asks for the API key and secret when the config
// doesn't carry them
func promptAPICredentials(reader *bufio.Reader, cfg *config.Config) error {
	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		fmt.Println("You can get API credentials from: https://www.last.fm/api/account/create")
		fmt.Println()
	}

	if cfg.LastFM.APIKey == "" {
		colorPrompt.Print("Enter your Last.fm API Key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		cfg.LastFM.APIKey = strings.TrimSpace(apiKey)
	}

	if cfg.LastFM.APISecret == "" {
		colorPrompt.Print("Enter your Last.fm API Secret: ")
		apiSecret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API secret: %w", err)
		}
		cfg.LastFM.APISecret = strings.TrimSpace(apiSecret)
	}

	if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
		return fmt.Errorf("API key and secret are required")
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal
func promptPassword(reader *bufio.Reader) (string, error) {
	colorPrompt.Print("Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
