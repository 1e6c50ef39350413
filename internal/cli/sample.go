package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pomgrid/pomgrid/pkg/errors"
	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/pom"
)

// sampleCommand creates the sample command, which writes a demonstration
// matrix so the browse/serve/graph commands can be tried without any
// POM files on disk.
func (c *CLI) sampleCommand() *cobra.Command {
	var outputDir, output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a demonstration dependency matrix",
		Long: `Write a small demonstration matrix built from a fictional three-project
workspace. The output has exactly the shape analyze produces, including
property-resolved versions, explicit versions, and inherited ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("output-dir") && c.cfg.OutputDir != "" {
				outputDir = c.cfg.OutputDir
			}
			if !flags.Changed("output") && c.cfg.Output != "" {
				output = c.cfg.Output
			}

			outputPath := filepath.Join(outputDir, output)
			if err := errors.ValidateOutputPath(outputPath); err != nil {
				return err
			}

			doc := matrix.Aggregate(sampleDescriptors()).Document()
			if err := matrix.ExportDocument(doc, outputPath); err != nil {
				return err
			}

			groups, artifacts, versions := doc.Counts()
			printSuccess("Wrote sample matrix")
			printFile(outputPath)
			printStats(groups, artifacts, versions, false)
			printNewline()
			printNextStep("Browse it", fmt.Sprintf("pomgrid browse %s", outputPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", defaultOutputDir, "directory for the matrix file")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputFile, "matrix file name")

	return cmd
}

// sampleDescriptors models a small fictional workspace: two services on
// different Spring versions, a shared platform library with drift, and a
// legacy module still on JUnit 4. The data goes through the real
// aggregation path, so property placeholders and inherited versions show
// up exactly as they would for parsed files.
func sampleDescriptors() []*pom.Descriptor {
	return []*pom.Descriptor{
		{
			GAV:       pom.GAV{GroupID: "com.acme", ArtifactID: "billing-service", Version: "1.4.0"},
			Packaging: "jar",
			Properties: []pom.Property{
				{Name: "spring.version", Value: "5.3.30"},
			},
			Dependencies: []pom.Dependency{
				{GAV: pom.GAV{GroupID: "org.springframework", ArtifactID: "spring-context", Version: "${spring.version}"}},
				{GAV: pom.GAV{GroupID: "com.acme.platform", ArtifactID: "platform-core", Version: "1.4.0"}},
				{GAV: pom.GAV{GroupID: "org.slf4j", ArtifactID: "slf4j-api"}},
				{GAV: pom.GAV{GroupID: "org.junit.jupiter", ArtifactID: "junit-jupiter", Version: "5.10.2"}, Scope: "test"},
			},
		},
		{
			GAV:       pom.GAV{GroupID: "com.acme", ArtifactID: "checkout-service", Version: "2.1.0"},
			Packaging: "jar",
			Properties: []pom.Property{
				{Name: "spring.version", Value: "6.1.3"},
			},
			Dependencies: []pom.Dependency{
				{GAV: pom.GAV{GroupID: "org.springframework", ArtifactID: "spring-context", Version: "${spring.version}"}},
				{GAV: pom.GAV{GroupID: "com.acme.platform", ArtifactID: "platform-core", Version: "1.4.0"}},
				{GAV: pom.GAV{GroupID: "org.slf4j", ArtifactID: "slf4j-api"}},
				{GAV: pom.GAV{GroupID: "org.junit.jupiter", ArtifactID: "junit-jupiter", Version: "5.10.2"}, Scope: "test"},
			},
		},
		{
			GAV:       pom.GAV{GroupID: "com.acme", ArtifactID: "legacy-gateway", Version: "0.9.1"},
			Packaging: "war",
			Dependencies: []pom.Dependency{
				{GAV: pom.GAV{GroupID: "com.acme.platform", ArtifactID: "platform-core", Version: "1.3.2"}},
				{GAV: pom.GAV{GroupID: "org.slf4j", ArtifactID: "slf4j-api"}},
				{GAV: pom.GAV{GroupID: "junit", ArtifactID: "junit", Version: "4.13.2"}, Scope: "test"},
			},
		},
	}
}
