package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/docstore/pkg/blobstore"
	"github.com/arthur-debert/docstore/pkg/config"
	"github.com/arthur-debert/docstore/pkg/docstore"
	"github.com/arthur-debert/docstore/pkg/filesystem"
	"github.com/arthur-debert/docstore/pkg/logging"
	"github.com/arthur-debert/docstore/pkg/paths"
)

var (
	verbosity  int
	rootPath   string
	configPath string
	subfolder  string

	store     *docstore.Store
	blobs     *blobstore.Store
	storePath paths.Paths

	rootCmd = &cobra.Command{
		Use:   "docstore",
		Short: "Inspect and edit a local JSON document store",
		Long: `docstore is a file-backed document store: every namespace owns a
directory, every entity is one <id>.json file inside it, and blobs live
under fixed data/ and images/ directories. This tool inspects and edits
a store from the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if verbosity == 0 {
				verbosity = cfg.Verbosity
			}
			logging.SetupLogger(verbosity)

			root := rootPath
			if root == "" {
				root = cfg.Root
			}

			fsys := filesystem.NewOS()
			p, err := paths.New(root, fsys)
			if err != nil {
				return err
			}

			var blobOpts []blobstore.StoreOption
			if cfg.Images.Codec == "jpeg" {
				blobOpts = append(blobOpts, blobstore.WithImageCodec(blobstore.JPEGCodec(cfg.Images.Quality)))
			}

			storePath = p
			store = docstore.New(fsys, p)
			blobs = blobstore.New(fsys, p, blobOpts...)

			log.Debug().Str("command", cmd.Name()).Str("root", p.DocumentsRoot()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "Store root directory (default: config file or XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./docstore.{toml,yaml} or $XDG_CONFIG_HOME/docstore/)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(namespacesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(blobCmd)

	listCmd.Flags().StringVar(&subfolder, "subfolder", "", "Address documents inside a namespace subfolder")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docstore version %s\n", formatBold(version))
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
