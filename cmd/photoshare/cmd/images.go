package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/photoshare/internal/client"
)

func (c *cli) uploadCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Publish a photo as a post",
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

			uploaded, err := c.api.Upload(cmd.Context(), client.File{Name: filepath.Base(args[0]), Body: f}, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Uploaded %s\n", uploaded.Filename)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "caption")
	return cmd
}

func (c *cli) imagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "List your posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			images, err := c.api.Images(cmd.Context())
			if err != nil {
				return err
			}
			if len(images) == 0 {
				fmt.Fprintln(c.out, "No posts yet")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UPLOADED\tFILENAME\tDESCRIPTION")
			for _, img := range images {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", img.UploadedAt, img.Filename, img.Description)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <filename>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			if err := c.api.DeleteImage(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func (c *cli) downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <filename> [dest]",
		Short: "Save a stored media file locally",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Base(args[0])
			if len(args) == 2 {
				dest = args[1]
			}

			f, err := os.Create(dest)
			if err != nil {
				return err
			}
			n, err := c.api.Download(cmd.Context(), args[0], f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(dest)
				return err
			}

			fmt.Fprintf(c.out, "Saved %s (%d bytes)\n", dest, n)
			return nil
		},
	}
}
