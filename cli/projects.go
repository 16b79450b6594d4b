package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/project"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the project registry",
	Long: `Register project roots under short names so other commands can address
them from anywhere with --project.`,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add <name> [path]",
	Short: "Register a project root (default: current directory)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 2 {
			root = args[1]
		}
		if err := reg.Add(args[0], root); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}

		resolved, _ := reg.Resolve(args[0])
		fmt.Printf("registered %s -> %s\n", args[0], resolved)
		return nil
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		if !reg.Remove(args[0]) {
			return fmt.Errorf("unknown project %q", args[0])
		}
		if err := reg.Save(); err != nil {
			return err
		}

		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		entries := reg.List()
		if len(entries) == 0 {
			fmt.Println("no projects registered")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%-20s %s\n", entry.Name, entry.Root)
		}
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsAddCmd, projectsRemoveCmd, projectsListCmd)
	rootCmd.AddCommand(projectsCmd)
}

func loadRegistry() (*project.Registry, error) {
	path, err := project.DefaultPath()
	if err != nil {
		return nil, err
	}
	return project.Load(path)
}
