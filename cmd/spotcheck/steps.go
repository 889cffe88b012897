package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/spotcheck/internal/validator"
	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Manage the test steps",
}

var stepsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List steps in presentation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		steps, err := a.catalog.ListSteps(cmd.Context())
		if err != nil {
			return err
		}
		return printSteps(cmd.OutOrStdout(), steps)
	},
}

func printSteps(out io.Writer, steps []domain.Step) error {
	if len(steps) == 0 {
		_, err := fmt.Fprintln(out, "No steps configured. Add one with 'spotcheck steps add'.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tID\tIMAGE\tHOTSPOT\tINSTRUCTION")
	for _, s := range steps {
		h := s.Hotspot
		fmt.Fprintf(w, "%d\t%s\t%s\t(%d,%d)-(%d,%d)\t%s\n",
			s.Order, s.ID, s.ImageRef, h.X1, h.Y1, h.X2, h.Y2, s.Instruction)
	}
	return w.Flush()
}

var stepsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a step after the last one",
	Long: `Copies the image into the images directory and appends a step with the given
instruction and hotspot. Corners may be given in any order.`,
	Example: `  spotcheck steps add --image home.png --instruction "Open the settings" --hotspot 10,10,50,50`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, _ := cmd.Flags().GetString("image")
		instruction, _ := cmd.Flags().GetString("instruction")
		hotspotFlag, _ := cmd.Flags().GetString("hotspot")
		hotspot, err := parseHotspot(hotspotFlag)
		if err != nil {
			return err
		}
		if err := domain.ValidateImageRef(image); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		admin, err := a.admin()
		if err != nil {
			return err
		}

		ref, err := importImage(image, cfg.ImagesDir)
		if err != nil {
			return err
		}

		step, err := admin.AddStep(cmd.Context(), ports.NewStep{
			Instruction: instruction,
			ImageRef:    ref,
			Hotspot:     hotspot,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added step %s at position %d\n", step.ID, step.Order)
		return nil
	},
}

// parseHotspot reads "x1,y1,x2,y2".
func parseHotspot(s string) (domain.Hotspot, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.Hotspot{}, fmt.Errorf("--hotspot needs four integers x1,y1,x2,y2, got %q", s)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.Hotspot{}, fmt.Errorf("--hotspot needs four integers x1,y1,x2,y2, got %q", s)
		}
		n[i] = v
	}
	return domain.Hotspot{X1: n[0], Y1: n[1], X2: n[2], Y2: n[3]}, nil
}

// importImage copies src into dir and returns the name steps refer to it by.
// A file already inside dir is used in place.
func importImage(src, dir string) (string, error) {
	name := filepath.Base(src)
	dest := filepath.Join(dir, name)

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	if srcAbs == destAbs {
		if _, err := os.Stat(srcAbs); err != nil {
			return "", fmt.Errorf("image not found: %w", err)
		}
		return name, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("an image named %s already exists in %s", name, dir)
		}
		return "", fmt.Errorf("failed to create image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to copy image: %w", err)
	}
	return name, out.Close()
}

var stepsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a step; later steps move up one position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		admin, err := a.admin()
		if err != nil {
			return err
		}

		steps, err := admin.ListSteps(cmd.Context())
		if err != nil {
			return err
		}
		if err := admin.DeleteStep(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted step %s\n", args[0])

		keepImage, _ := cmd.Flags().GetBool("keep-image")
		if ref := orphanedImage(steps, args[0]); ref != "" && !keepImage {
			if err := os.Remove(filepath.Join(cfg.ImagesDir, ref)); err != nil && !os.IsNotExist(err) {
				a.logger.Warn("failed to remove image", "image", ref, "err", err)
			}
		}
		return nil
	},
}

// orphanedImage returns the image of step id if no other step uses it.
func orphanedImage(steps []domain.Step, id string) string {
	var ref string
	for _, s := range steps {
		if s.ID == id {
			ref = s.ImageRef
		}
	}
	for _, s := range steps {
		if s.ID != id && s.ImageRef == ref {
			return ""
		}
	}
	return ref
}

var stepsReorderCmd = &cobra.Command{
	Use:     "reorder <id>...",
	Short:   "Set the presentation order; every step id must be listed once",
	Example: `  spotcheck steps reorder 3 1 2`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		admin, err := a.admin()
		if err != nil {
			return err
		}
		if err := admin.Reorder(cmd.Context(), args); err != nil {
			return err
		}

		steps, err := admin.ListSteps(cmd.Context())
		if err != nil {
			return err
		}
		return printSteps(cmd.OutOrStdout(), steps)
	},
}

var stepsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that every step can be shown and answered",
	Long:  `Reports empty instructions, duplicate ids, unsupported or missing images and unreachable hotspots.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		steps, err := a.catalog.ListSteps(cmd.Context())
		if err != nil {
			return err
		}
		if err := validator.ValidateCatalog(steps, cfg.ImagesDir); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d steps are valid\n", len(steps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
	stepsCmd.AddCommand(stepsListCmd, stepsAddCmd, stepsDeleteCmd, stepsReorderCmd, stepsValidateCmd)
	stepsCmd.PersistentFlags().String("images", "", "Directory with step images (overrides config)")

	stepsAddCmd.Flags().String("image", "", "Screenshot file (jpg, jpeg, png, gif, bmp)")
	stepsAddCmd.Flags().String("instruction", "", "Task shown to the participant")
	stepsAddCmd.Flags().String("hotspot", "", "Target rectangle corners x1,y1,x2,y2")
	_ = stepsAddCmd.MarkFlagRequired("image")
	_ = stepsAddCmd.MarkFlagRequired("instruction")
	_ = stepsAddCmd.MarkFlagRequired("hotspot")

	stepsDeleteCmd.Flags().Bool("keep-image", false, "Do not remove the image file")
}
