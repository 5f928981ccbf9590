package cli

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/versetag/pkg/version"
)

var versionAtLeast string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version",
	Long: `Show detailed build version information.

With --at-least, exit non-zero when this build is older than the given
version. Embedding apps use this to gate on engine compatibility before
driving the tagging flow:

  versetag version --at-least 1.4.0`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().StringVar(&versionAtLeast, "at-least", "", "Fail when the build is older than this version")
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Println(version.Full())
	if version.IsPrerelease() {
		fmt.Println("\nThis is a pre-release build.")
	}
	if versionAtLeast == "" {
		return nil
	}
	return checkAtLeast(versionAtLeast)
}

// checkAtLeast verifies the running build satisfies a minimum version.
// Development builds carry every change and always satisfy the check.
func checkAtLeast(minVersion string) error {
	if _, err := semver.NewVersion(minVersion); err != nil {
		return fmt.Errorf("invalid version %q: %w", minVersion, err)
	}
	if version.IsDevBuild() {
		return nil
	}
	if version.Compare(minVersion) < 0 {
		return fmt.Errorf("versetag %s is older than required %s", version.Short(), minVersion)
	}
	return nil
}
