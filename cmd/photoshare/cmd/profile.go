package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/client"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			profile, err := c.api.Profile(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s <%s>\n", profile.Username, profile.Email)
			if profile.Bio != "" {
				fmt.Fprintln(c.out, profile.Bio)
			}
			if profile.PictureURL != "" {
				fmt.Fprintf(c.out, "picture: %s\n", profile.PictureURL)
			}
			return nil
		},
	}

	cmd.AddCommand(c.profileEditCmd(), c.profilePictureCmd())
	return cmd
}

func (c *cli) profileEditCmd() *cobra.Command {
	var username, bio string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change username and/or bio; omitted flags stay as they are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit api.ProfileEdit
			if cmd.Flags().Changed("username") {
				edit.Username = &username
			}
			if cmd.Flags().Changed("bio") {
				edit.Bio = &bio
			}
			if edit.Username == nil && edit.Bio == nil {
				return fmt.Errorf("nothing to change: pass --username and/or --bio")
			}

			if err := c.authenticated(); err != nil {
				return err
			}
			edited, err := c.api.EditProfile(cmd.Context(), edit)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Profile updated: %s\n", edited.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "free-text bio")
	return cmd
}

func (c *cli) profilePictureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "picture <file>",
		Short: "Upload a new profile picture (jpg, jpeg or png)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			uploaded, err := c.api.UploadProfilePicture(cmd.Context(), client.File{Name: filepath.Base(args[0]), Body: f})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Profile picture updated: %s\n", uploaded.URL)
			return nil
		},
	}
}
