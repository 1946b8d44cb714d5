package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"screenkeep/internal/app"
	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
	"screenkeep/internal/model"
	"screenkeep/internal/vault"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "screenkeep",
	Short: "Screenshot catalog and categorization tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s\n", cfg.Database.Type)
		fmt.Printf("Vault:      %s (encrypted=%v)\n", cfg.Vault.Type, cfg.Vault.Encrypted)
		fmt.Printf("Classifier: %s\n", cfg.Classifier.Type)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage vault encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a vault key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		protect, _ := cmd.Flags().GetBool("protect")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		passphrase := ""
		if protect {
			fmt.Fprint(os.Stderr, "identity passphrase: ")
			pass, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading passphrase: %w", err)
			}
			passphrase = string(pass)
		}

		if err := vault.GenerateKeys(cfg.Encryption.RecipientPath, cfg.Encryption.IdentityPath, passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Recipient: %s\n", cfg.Encryption.RecipientPath)
		fmt.Printf("Identity:  %s\n", cfg.Encryption.IdentityPath)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILES...",
	Short: "Import screenshots from image files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.ImportFiles(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("Imported %d of %d file(s)\n", count, len(args))
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the photo directory for screenshots and import them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		found, imported, err := a.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("Found %d candidate(s), imported %d\n", found, imported)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged screenshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryName, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")
		tag, _ := cmd.Flags().GetString("tag")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")

		key, err := parseSortKey(sortKey)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		categoryID, err := a.ResolveCategoryID(cmd.Context(), categoryName)
		if err != nil {
			return err
		}

		shots, err := a.List(cmd.Context(), catalog.Filter{
			CategoryID: categoryID,
			Search:     search,
			Tag:        tag,
			Sort:       key,
			Descending: desc,
		})
		if err != nil {
			return err
		}

		if len(shots) == 0 {
			fmt.Println("No screenshots found.")
			return nil
		}

		categories, err := a.Categories(cmd.Context())
		if err != nil {
			return err
		}
		names := make(map[string]string, len(categories))
		for _, c := range categories {
			names[c.ID] = c.Name
		}

		for _, s := range shots {
			printScreenshotLine(s, names[s.CategoryID])
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a screenshot's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.GetScreenshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", s.ID)
		fmt.Printf("File:        %s\n", s.FileName)
		fmt.Printf("Size:        %d bytes (%dx%d)\n", s.Size, s.Width, s.Height)
		fmt.Printf("Created:     %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Modified:    %s\n", s.ModifiedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Description: %s\n", s.AIDescription)
		fmt.Printf("Confidence:  %.2f\n", s.Confidence)
		fmt.Printf("Favorite:    %v\n", s.Favorite)
		if len(s.Tags) > 0 {
			fmt.Printf("Tags:        %s\n", strings.Join(s.Tags, ", "))
		}
		if s.Note != "" {
			fmt.Printf("Note:        %s\n", s.Note)
		}
		return nil
	},
}

// reanalyze command
var reanalyzeCmd = &cobra.Command{
	Use:   "reanalyze [ID]",
	Short: "Re-run classification on screenshots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("provide a screenshot ID or --all")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if all {
			count, err := a.ReanalyzeAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("reanalysis failed: %w", err)
			}
			fmt.Printf("Reanalyzed %d screenshot(s)\n", count)
			return nil
		}

		if err := a.Reanalyze(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("reanalysis failed: %w", err)
		}
		fmt.Println("Reanalyzed.")
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a screenshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

// tag command
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage screenshot tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add ID TAG",
	Short: "Add a tag to a screenshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.AddTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Tagged %s with %q\n", args[0], args[1])
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "rm ID TAG",
	Short: "Remove a tag from a screenshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed %q from %s\n", args[1], args[0])
		return nil
	},
}

// note command
var noteCmd = &cobra.Command{
	Use:   "note ID TEXT",
	Short: "Set the note on a screenshot",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		note := strings.Join(args[1:], " ")
		if err := a.SetNote(cmd.Context(), args[0], note); err != nil {
			return err
		}
		fmt.Println("Note saved.")
		return nil
	},
}

// favorite command
var favoriteCmd = &cobra.Command{
	Use:   "favorite ID",
	Short: "Toggle a screenshot's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		on, err := a.ToggleFavorite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if on {
			fmt.Println("Marked as favorite.")
		} else {
			fmt.Println("Removed from favorites.")
		}
		return nil
	},
}

// category command
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		categories, err := a.Categories(cmd.Context())
		if err != nil {
			return err
		}

		for _, c := range categories {
			marker := " "
			if c.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %-15s %s %s\n", marker, c.Name, c.Icon, c.Color)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.CreateCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Category %q (%s %s)\n", c.Name, c.Icon, c.Color)
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a category, reassigning its screenshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Category %q deleted\n", args[0])
		return nil
	},
}

// remind command
var remindCmd = &cobra.Command{
	Use:   "remind ID [HOURS]",
	Short: "Schedule a review reminder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cancel, _ := cmd.Flags().GetBool("cancel")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if cancel {
			if err := a.CancelReminder(args[0]); err != nil {
				return err
			}
			fmt.Println("Reminder cancelled.")
			return nil
		}

		hours := 24
		if len(args) > 1 {
			hours, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid hours: %s", args[1])
			}
		}

		if err := a.Remind(cmd.Context(), args[0], hours); err != nil {
			return err
		}
		fmt.Printf("Reminder scheduled in %d hour(s)\n", hours)
		return nil
	},
}

// profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View the user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Profile(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No profile set. Use 'profile set NAME EMAIL'.")
			return nil
		}

		fmt.Printf("Name:    %s\n", p.Name)
		fmt.Printf("Email:   %s\n", p.Email)
		fmt.Printf("Since:   %s\n", p.CreatedAt.Format("2006-01-02"))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set NAME EMAIL",
	Short: "Set the user profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SaveProfile(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Profile saved.")
		return nil
	},
}

// parseSortKey maps the --sort flag value to a SortKey.
func parseSortKey(s string) (catalog.SortKey, error) {
	switch s {
	case "", "created":
		return catalog.SortByDateCreated, nil
	case "modified":
		return catalog.SortByDateModified, nil
	case "name":
		return catalog.SortByFileName, nil
	case "size":
		return catalog.SortBySize, nil
	case "confidence":
		return catalog.SortByConfidence, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (created, modified, name, size, confidence)", s)
	}
}

func printScreenshotLine(s *model.Screenshot, categoryName string) {
	fav := " "
	if s.Favorite {
		fav = "♥"
	}
	tags := ""
	if len(s.Tags) > 0 {
		tags = "  [" + strings.Join(s.Tags, ",") + "]"
	}
	fmt.Printf("%s %s  %-25s %-12s %.2f  %s%s\n",
		fav,
		s.ID[:8],
		s.FileName,
		categoryName,
		s.Confidence,
		s.CreatedAt.Format("2006-01-02 15:04"),
		tags,
	)
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	keysCmd.AddCommand(keysInitCmd)
	keysInitCmd.Flags().Bool("protect", false, "Protect the identity file with a passphrase")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)

	profileCmd.AddCommand(profileSetCmd)

	listCmd.Flags().StringP("category", "c", "", "Filter by category name")
	listCmd.Flags().StringP("search", "s", "", "Filter by search text")
	listCmd.Flags().StringP("tag", "t", "", "Filter by exact tag")
	listCmd.Flags().String("sort", "created", "Sort key: created, modified, name, size, confidence")
	listCmd.Flags().Bool("desc", false, "Sort descending")

	reanalyzeCmd.Flags().Bool("all", false, "Reanalyze every screenshot")
	remindCmd.Flags().Bool("cancel", false, "Cancel the pending reminder instead")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reanalyzeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(profileCmd)
}
