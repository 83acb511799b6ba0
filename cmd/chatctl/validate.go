package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"campus-chatbot/pkg/nlp"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check intents, flows and classifier for inconsistencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, factory, err := opts.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var problems int

			for _, tag := range factory.Flows.Tags() {
				if !factory.Intents.Has(tag) {
					problems++
					fmt.Fprintf(out, "ERROR flow %q has no matching intent\n", tag)
				}
			}

			if cfg.ClassifierPath != "" {
				model, err := nlp.LoadClassifier(cfg.ClassifierPath)
				if err != nil {
					problems++
					fmt.Fprintf(out, "ERROR classifier %s: %v\n", cfg.ClassifierPath, err)
				} else {
					for _, label := range model.Classes() {
						if !factory.Intents.Has(label) {
							problems++
							fmt.Fprintf(out, "ERROR classifier label %q is not in the intent table\n", label)
						}
					}
				}
			}

			for _, rule := range cfg.KeywordRules() {
				if !factory.Intents.Has(rule.Tag) {
					fmt.Fprintf(out, "WARN  keyword %q points at unknown intent %q\n", rule.Keyword, rule.Tag)
				}
			}

			for _, intent := range factory.Intents.All() {
				if len(intent.Responses) == 0 && !factory.Flows.Has(intent.Tag) {
					fmt.Fprintf(out, "WARN  intent %q has no responses and will answer with a fallback\n", intent.Tag)
				}
			}

			fmt.Fprintf(out, "%d intents, %d flows, classifier loaded: %t\n",
				factory.Intents.Len(), factory.Flows.Len(), factory.ClassifierAvailable)

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}
