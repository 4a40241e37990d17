package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(profileCmd)

	// Profile subcommands
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileSelectCmd)
	profileCmd.AddCommand(profileShowCmd)

	// Login command flags
	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password (not recommended, use interactive prompt)")

	// Profile create flags
	profileCreateCmd.Flags().String("api", defaultAPIURL, "Catalog API URL")
	profileCreateCmd.Flags().String("web", defaultWebURL, "Web front end URL")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Manage the session and profiles used to talk to the catalog.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in through the web front end",
	Long: `Authenticate with the web front end using email and password.

This command will prompt for credentials if not provided via flags.
The session cookie is stored in the active profile and expires with the
server's session lifetime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		out := cmd.OutOrStdout()

		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Prompt for email if not provided
		if email == "" {
			email, err = promptLine(cmd.InOrStdin(), out, "Email: ")
			if err != nil {
				return err
			}
		}

		// Prompt for password if not provided
		if password == "" {
			password, err = promptPassword(out)
			if err != nil {
				return err
			}
		}

		// Validate inputs
		if strings.TrimSpace(email) == "" {
			return fmt.Errorf("email is required")
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		sessions := NewWebSessionClient(profile.WebURL, requestTimeout())

		_, _ = fmt.Fprintf(out, "Authenticating with %s...\n", profile.WebURL)
		cookie, result, err := sessions.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		profile.SessionCookie = cookie
		profile.Email = result.Email
		if profile.Email == "" {
			profile.Email = email
		}

		if err := AddProfile(*profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		_, _ = fmt.Fprintf(out, "✓ Successfully authenticated as %s\n", profile.Email)
		_, _ = fmt.Fprintf(out, "✓ Session stored in profile '%s'\n", profile.Name)

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Long: `Discard the session cookie of the active profile.
The profile itself and its URLs are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		profile, err := GetCurrentProfile()
		if err != nil {
			return fmt.Errorf("no active profile: %w", err)
		}

		if profile.SessionCookie != "" {
			sessions := NewWebSessionClient(profile.WebURL, requestTimeout())
			if err := sessions.Logout(cmd.Context(), profile.SessionCookie); err != nil {
				// The local session is discarded either way.
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
		}

		if err := ClearSession(profile.Name); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		_, _ = fmt.Fprintf(out, "✓ Logged out of profile '%s'\n", profile.Name)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Validate the stored session the same way the web front end does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return renderStatus(cmd.OutOrStdout(), profile, validateStoredSession(profile))
	},
}

// renderStatus prints the session state of profile.
func renderStatus(w io.Writer, profile *Profile, validation domain.SessionValidation) error {
	if validation.Valid {
		_, _ = fmt.Fprintf(w, "Status: ✓ Authenticated as %s\n", validation.Identity)
		if validation.Token != nil {
			expires := validation.Token.LoginTime.Add(newSessionValidator().TTL())
			_, _ = fmt.Fprintf(w, "Expires: %s\n", expires.Local().Format("2006-01-02 15:04:05"))
		}
	} else {
		_, _ = fmt.Fprintln(w, "Status: Not authenticated")
		if validation.Reason != domain.ReasonMissing {
			_, _ = fmt.Fprintf(w, "Reason: %s\n", validation.Reason)
		}
	}
	_, _ = fmt.Fprintf(w, "Profile: %s\n", profile.Name)
	_, _ = fmt.Fprintf(w, "API: %s\n", profile.APIURL)
	_, err := fmt.Fprintf(w, "Web: %s\n", profile.WebURL)
	return err
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles",
	Long:  `Manage multiple profiles for different catalog deployments.`,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all profiles",
	Long:    `List all configured profiles.`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		profiles, err := ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		if len(profiles) == 0 {
			_, _ = fmt.Fprintln(out, "No profiles configured")
			return nil
		}

		config, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		_, _ = fmt.Fprintln(out, "Available profiles:")
		for _, profile := range profiles {
			prefix := "  "
			if profile.Name == config.DefaultProfile {
				prefix = "* "
			}

			_, _ = fmt.Fprintf(out, "%s%s\n", prefix, profile.Name)
			_, _ = fmt.Fprintf(out, "    API: %s\n", profile.APIURL)
			_, _ = fmt.Fprintf(out, "    Web: %s\n", profile.WebURL)
			if profile.Email != "" {
				_, _ = fmt.Fprintf(out, "    Email: %s\n", profile.Email)
			}
		}

		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new profile",
	Long:  `Create a new profile pointing at a catalog API and web front end.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api")
		webURL, _ := cmd.Flags().GetString("web")

		profile := Profile{
			Name:   args[0],
			APIURL: strings.TrimRight(apiURL, "/"),
			WebURL: strings.TrimRight(webURL, "/"),
		}

		if err := ValidateProfile(&profile); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		if err := AddProfile(profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile '%s' created successfully\n", profile.Name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Short:   "Delete a profile",
	Long:    `Delete a profile and its stored session.`,
	Aliases: []string{"remove", "rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := RemoveProfile(args[0]); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile '%s' deleted\n", args[0])
		return nil
	},
}

var profileSelectCmd = &cobra.Command{
	Use:     "select [name]",
	Short:   "Select a profile as default",
	Long:    `Set the specified profile as the default for all operations.`,
	Aliases: []string{"switch", "use"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := SetCurrentProfile(args[0]); err != nil {
			return fmt.Errorf("failed to select profile: %w", err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile '%s' selected as default\n", args[0])
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long:  `Display detailed information about a profile.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var profile *Profile
		if len(args) == 0 {
			current, err := GetCurrentProfile()
			if err != nil {
				return fmt.Errorf("failed to get current profile: %w", err)
			}
			profile = current
		} else {
			config, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			p, exists := config.Profiles[args[0]]
			if !exists {
				return fmt.Errorf("profile '%s' not found", args[0])
			}
			profile = &p
		}

		_, _ = fmt.Fprintf(out, "Profile: %s\n", profile.Name)
		_, _ = fmt.Fprintf(out, "API: %s\n", profile.APIURL)
		_, _ = fmt.Fprintf(out, "Web: %s\n", profile.WebURL)
		if profile.Email != "" {
			_, _ = fmt.Fprintf(out, "Email: %s\n", profile.Email)
		}
		_, _ = fmt.Fprintf(out, "Session: %s\n", maskSecret(profile.SessionCookie))

		return nil
	},
}

func promptLine(in io.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal.
func promptPassword(out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Password: ")
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return promptLine(os.Stdin, io.Discard, "")
	}

	bytePassword, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(out) // New line after password input
	return string(bytePassword), nil
}
