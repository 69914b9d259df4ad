package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

var guideListJSON bool

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Manage discussion guides",
	Long: `Create, inspect, and version discussion guides.

A guide is a tree of questions with optional follow-up rules. Each
update stores a new immutable version; sessions always run against a
guide's single active version.`,
}

var guideCreateCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Create or update a guide from a JSON file",
	Long: `Create a guide from a JSON definition, or store a new version when a
guide with the same title already exists. The new version becomes
active immediately.

The file format:
  {
    "title": "Exit Interview",
    "description": "Standard exit interview",
    "questions": [
      {"id": "q1", "text": "Why are you leaving?", "subQuestions": [...]}
    ]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runGuideCreate,
}

var guideListCmd = &cobra.Command{
	Use:   "list",
	Short: "List guides",
	Args:  cobra.NoArgs,
	RunE:  runGuideList,
}

var guideShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a guide and its active version",
	Args:  cobra.ExactArgs(1),
	RunE:  runGuideShow,
}

var guideVersionsCmd = &cobra.Command{
	Use:   "versions [id]",
	Short: "List a guide's version history",
	Args:  cobra.ExactArgs(1),
	RunE:  runGuideVersions,
}

var guideActivateCmd = &cobra.Command{
	Use:   "activate [id] [version]",
	Short: "Make a version the guide's active one",
	Args:  cobra.ExactArgs(2),
	RunE:  runGuideActivate,
}

func init() {
	guideListCmd.Flags().BoolVar(&guideListJSON, "json", false, "output as JSON")
	guideCmd.AddCommand(guideCreateCmd)
	guideCmd.AddCommand(guideListCmd)
	guideCmd.AddCommand(guideShowCmd)
	guideCmd.AddCommand(guideVersionsCmd)
	guideCmd.AddCommand(guideActivateCmd)
	rootCmd.AddCommand(guideCmd)
}

// guideFile is the JSON shape accepted by guide create.
type guideFile struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

func runGuideCreate(cmd *cobra.Command, args []string) error {
	if guideService == nil {
		return errors.New("guide service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading guide file: %w", err)
	}

	var gf guideFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return fmt.Errorf("parsing guide file: %w", err)
	}

	guide, err := guideService.CreateOrUpdate(cmd.Context(), gf.Title, gf.Description, gf.Questions)
	if err != nil {
		return fmt.Errorf("storing guide: %w", err)
	}

	cmd.Printf("Stored %q as version %d (id %s)\n", guide.Title, guide.CurrentVersion, guide.ID)
	return nil
}

func runGuideList(cmd *cobra.Command, _ []string) error {
	if guideService == nil {
		return errors.New("guide service not configured")
	}

	guides, err := guideService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing guides: %w", err)
	}

	if guideListJSON {
		data, err := json.MarshalIndent(guides, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling guides: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(guides) == 0 {
		cmd.Println("No guides found.")
		return nil
	}

	for i := range guides {
		cmd.Printf("  %s  %s (v%d)\n", guides[i].ID, guides[i].Title, guides[i].CurrentVersion)
		if guides[i].Description != "" {
			cmd.Printf("      %s\n", guides[i].Description)
		}
	}
	return nil
}

func runGuideShow(cmd *cobra.Command, args []string) error {
	if guideService == nil {
		return errors.New("guide service not configured")
	}

	guide, active, err := guideService.ActiveGuide(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading guide: %w", err)
	}

	cmd.Printf("%s (v%d)\n", guide.Title, guide.CurrentVersion)
	if guide.Description != "" {
		cmd.Println(guide.Description)
	}
	cmd.Printf("Active version: %d (%d question(s))\n",
		active.Version, len(domain.FlattenQuestions(active.Content.Questions)))
	return nil
}

func runGuideVersions(cmd *cobra.Command, args []string) error {
	if guideService == nil {
		return errors.New("guide service not configured")
	}

	versions, err := guideService.ListVersions(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}

	for i := range versions {
		marker := " "
		if versions[i].IsActive {
			marker = "*"
		}
		cmd.Printf("  %s v%-3d %s  %s\n", marker, versions[i].Version,
			versions[i].CreatedAt.Format("2006-01-02 15:04"), versions[i].ID)
	}
	return nil
}

func runGuideActivate(cmd *cobra.Command, args []string) error {
	if guideService == nil {
		return errors.New("guide service not configured")
	}

	v, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: version must be a number", domain.ErrInvalidInput)
	}

	_, active, err := guideService.Activate(cmd.Context(), args[0], v)
	if err != nil {
		return fmt.Errorf("activating version: %w", err)
	}

	cmd.Printf("Version %d is now active\n", active.Version)
	return nil
}
