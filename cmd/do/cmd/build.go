package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

// binaries maps output names under bin/ to their main packages.
var binaries = map[string]string{
	"server":     "./cmd/server",
	"photoshare": "./cmd/photoshare",
}

func BuildCmd() *cobra.Command {
	var goos, goarch string

	cmd := &cobra.Command{
		Use:       "build [server|photoshare]...",
		Short:     "Build the server and CLI binaries into bin/",
		ValidArgs: []string{"server", "photoshare"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"server", "photoshare"}
			}
			for _, name := range args {
				if err := build(name, goos, goarch); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goos, "os", "", "target GOOS (default: host)")
	cmd.Flags().StringVar(&goarch, "arch", "", "target GOARCH (default: host)")
	return cmd
}

func build(name, goos, goarch string) error {
	out := filepath.Join("bin", name)
	if goos != "" || goarch != "" {
		out = fmt.Sprintf("%s-%s-%s", out, goos, goarch)
	}

	fmt.Printf("==> Building %s...\n", out)

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", "-s -w", "-o", out, binaries[name])
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "CGO_ENABLED=0")
	if goos != "" {
		cmd.Env = append(cmd.Env, "GOOS="+goos)
	}
	if goarch != "" {
		cmd.Env = append(cmd.Env, "GOARCH="+goarch)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build %s failed: %w", name, err)
	}
	return nil
}
