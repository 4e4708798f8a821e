package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var whoamiJSON bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := client.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		sess := client.Session.Current()
		sess.Token = redact(sess.Token)
		if len(sess.AvatarBlob) > 0 {
			sess.AvatarBlob = fmt.Sprintf("<%d bytes>", len(sess.AvatarBlob))
		}

		out := cmd.OutOrStdout()
		if whoamiJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sess)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "User\t%s (%s)\n", sess.DisplayName, sess.UserID)
		fmt.Fprintf(tw, "Category\t%s\n", sess.CategoryCode)
		if d := sess.Designation; d != nil {
			fmt.Fprintf(tw, "Designation\t%s, %s\n", d.Title, d.Department)
		}
		fmt.Fprintf(tw, "Branch\t%s\n", sess.BranchID)
		fmt.Fprintf(tw, "Day\t%s\n", sess.ReferenceDay)
		fmt.Fprintf(tw, "Privileges\t%s\n", strings.Join(sess.Privileges, ", "))
		fmt.Fprintf(tw, "Token\t%s\n", sess.Token)
		return tw.Flush()
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "print the session as JSON")
	rootCmd.AddCommand(logoutCmd, whoamiCmd)
}

func redact(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "…" + token[len(token)-4:]
}
