package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/holon-run/fresheyes/pkg/credential"
	hghelper "github.com/holon-run/fresheyes/pkg/github"
	"github.com/holon-run/fresheyes/pkg/log"
	"github.com/holon-run/fresheyes/pkg/mirror"
)

var (
	mirrorNoReviews bool
	mirrorOutDir    string
	mirrorNoPrompt  bool
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror (<owner> <repo> <pull-number> | <ref>)",
	Short: "Mirror a pull request into your fork",
	Long: `Mirror a pull request into the authenticated user's fork.

The pull request can be given as three arguments or as a single reference:
owner/repo#number or https://github.com/owner/repo/pull/number.

The GitHub token is read from GH_TOKEN, GITHUB_TOKEN or FRESHEYES_GITHUB_TOKEN,
then from ~/.fresheyes/fresheyes. When neither is set and stdin is a terminal
you are prompted for one.

Examples:
  fresheyes mirror bitcoin bitcoin 79
  fresheyes mirror bitcoin/bitcoin#79
  fresheyes mirror https://github.com/bitcoin/bitcoin/pull/79 --output ./out`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected <owner> <repo> <pull-number> or <ref>, got %d argument(s)", len(args))
		}
		return nil
	},
	SilenceUsage: true,
	RunE:         runMirror,
}

func addMirrorFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&mirrorNoReviews, "no-reviews", false, "Skip the review comment lookup")
	cmd.Flags().StringVarP(&mirrorOutDir, "output", "o", "", "Directory to write "+mirror.ResultFile+" to")
	cmd.Flags().BoolVar(&mirrorNoPrompt, "no-prompt", false, "Never prompt for a GitHub token")
}

func parseMirrorArgs(args []string) (mirror.Request, error) {
	var (
		ref *hghelper.PullRef
		err error
	)
	if len(args) == 1 {
		ref, err = hghelper.ParsePullRef(args[0])
	} else {
		ref, err = hghelper.PullRefFromArgs(args[0], args[1], args[2])
	}
	if err != nil {
		return mirror.Request{}, err
	}
	return mirror.Request{Owner: ref.Owner, Repo: ref.Repo, PullNumber: ref.Number}, nil
}

// credentialChain returns the token sources in lookup order.
func credentialChain() (credential.Chain, error) {
	tokenPath := cfg.Credentials.TokenFile
	if tokenPath == "" {
		p, err := credential.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		tokenPath = p
	}
	store := &credential.File{Path: tokenPath}

	chain := credential.Chain{credential.NewEnv(), store}
	if !mirrorNoPrompt {
		chain = append(chain, credential.NewPrompt(store))
	}
	return chain, nil
}

func clientOptions() []hghelper.ClientOption {
	return []hghelper.ClientOption{
		hghelper.WithBaseURL(cfg.GitHub.BaseURL),
		hghelper.WithTimeout(cfg.GitHub.Timeout),
		hghelper.WithUserAgent(cfg.GitHub.UserAgent),
	}
}

func runMirror(cmd *cobra.Command, args []string) error {
	req, err := parseMirrorArgs(args)
	if err != nil {
		return err
	}

	creds, err := credentialChain()
	if err != nil {
		return err
	}

	svc := mirror.NewService(creds, mirror.ClientFactory(clientOptions()...),
		mirror.WithLogger(log.L()),
		mirror.WithReviewLookup(cfg.Mirror.FetchReviews && !mirrorNoReviews),
	)

	log.Info("mirroring pull request", "source", req.String())
	result, err := svc.Mirror(cmd.Context(), req)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	if result.PRURL != "" {
		if result.Message != "" {
			p.Note(result.Message)
		}
		p.Success("Pull Request URL", result.PRURL)
	} else {
		p.Warn(result.Message)
		if result.ReviewsChecked && result.ReviewCount == 0 {
			p.Note("No reviews found for this pull request")
		}
	}

	if mirrorOutDir != "" {
		if err := mirror.WriteResult(mirrorOutDir, result); err != nil {
			return err
		}
		p.Field("Result", filepath.Join(mirrorOutDir, mirror.ResultFile))
	}
	return nil
}

func init() {
	addMirrorFlags(mirrorCmd)
	rootCmd.AddCommand(mirrorCmd)
}
