package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/photoshare/internal/api"
	"github.com/templui/photoshare/internal/client"
	"github.com/templui/photoshare/internal/metadata"
)

func (c *cli) albumsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "albums",
		Short: "List your albums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			albums, err := c.api.Albums(cmd.Context())
			if err != nil {
				return err
			}
			if len(albums) == 0 {
				fmt.Fprintln(c.out, "No albums yet")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, a := range albums {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.ID, a.Name, a.Description)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(c.albumCreateCmd(), c.albumImagesCmd(), c.albumAddCmd())
	return cmd
}

func (c *cli) albumCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			album, err := c.api.CreateAlbum(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created album %q (%s)\n", album.Name, album.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "album description")
	return cmd
}

func (c *cli) albumImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "images <album-id>",
		Short: "List the photos in one of your albums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}
			images, err := c.api.AlbumImages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(images) == 0 {
				fmt.Fprintln(c.out, "Album is empty")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAKEN\tLOCATION\tFILENAME\tDESCRIPTION")
			for _, img := range images {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", img.TakenAt, img.Location, img.Filename, img.Description)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) albumAddCmd() *cobra.Command {
	var (
		description string
		takenAt     string
		location    string
		offline     bool
		noPrompt    bool
	)

	cmd := &cobra.Command{
		Use:   "add <album-id> <file>",
		Short: "Add a photo to an album, reading capture time and location from the file",
		Long: `Add a photo to an album.

Capture time comes from EXIF data, or the current time when absent.
Location comes from EXIF GPS data. Without GPS the device's approximate
position is looked up from its IP address, and if that fails you are
asked to type one. --taken-at and --location skip the lookups.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authenticated(); err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			var sources []metadata.LocationSource
			if !cmd.Flags().Changed("location") {
				if !offline {
					sources = append(sources, metadata.NewIPLocator(c.ipGeoURL))
				}
				if !noPrompt {
					sources = append(sources, metadata.NewPromptSource(c.in, c.out))
				}
			}

			info, err := metadata.NewExtractor(sources...).Extract(cmd.Context(), f)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("location") {
				info.Location = location
			}
			if takenAt != "" {
				t, err := time.ParseInLocation(api.TakenAtLayout, takenAt, time.Local)
				if err != nil {
					return fmt.Errorf("--taken-at must look like %q", api.TakenAtLayout)
				}
				info.TakenAt = t
			}

			if _, err := f.Seek(0, io.SeekStart); err != nil {
				return err
			}

			added, err := c.api.AddAlbumImage(cmd.Context(), args[0], client.File{Name: filepath.Base(args[1]), Body: f}, client.AlbumImageMeta{
				Description: description,
				TakenAt:     info.TakenAt,
				Location:    info.Location,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added %s (taken %s", added.Filename, added.TakenAt)
			if added.Location != "" {
				fmt.Fprintf(c.out, " at %s", added.Location)
			}
			fmt.Fprintln(c.out, ")")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&description, "description", "d", "", "caption")
	flags.StringVar(&takenAt, "taken-at", "", "capture time, "+api.TakenAtLayout)
	flags.StringVar(&location, "location", "", "free-text location")
	flags.BoolVar(&offline, "offline", false, "skip the IP geolocation lookup")
	flags.BoolVar(&noPrompt, "no-prompt", false, "never ask for a location")
	return cmd
}
