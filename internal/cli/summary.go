package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"familytree/pkg/domain"
)

type memberSummary struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	MaidenName string   `yaml:"maiden_name,omitempty" json:"maiden_name,omitempty"`
	Gender     string   `yaml:"gender" json:"gender"`
	Address    string   `yaml:"address" json:"address"`
	Father     string   `yaml:"father,omitempty" json:"father,omitempty"`
	Mother     string   `yaml:"mother,omitempty" json:"mother,omitempty"`
	Spouse     string   `yaml:"spouse,omitempty" json:"spouse,omitempty"`
	Children   []string `yaml:"children,omitempty" json:"children,omitempty"`
}

type treeSummary struct {
	Document string          `yaml:"document" json:"document"`
	Root     string          `yaml:"root,omitempty" json:"root,omitempty"`
	Count    int             `yaml:"members_count" json:"members_count"`
	Members  []memberSummary `yaml:"members" json:"members"`
}

func summaryCmd(s *session) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "summary <name>",
		Short: "Print the members and relations of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return report(cmd, fmt.Errorf("unsupported format %q (want yaml or json)", format))
			}
			tree, err := s.archive.Load(cmd.Context(), args[0])
			if err != nil {
				return report(cmd, err)
			}
			return writeSummary(cmd.OutOrStdout(), format, summarize(args[0], tree))
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	return c
}

func summarize(name string, tree *domain.FamilyTree) treeSummary {
	members := tree.Members()
	sum := treeSummary{Document: name, Count: len(members), Members: make([]memberSummary, 0, len(members))}
	if tree.HasRoot() {
		sum.Root = fullName(tree.Root())
	}
	for _, m := range members {
		ms := memberSummary{
			ID:         m.ID(),
			Name:       fullName(m),
			MaidenName: m.MaidenName(),
			Gender:     string(m.Gender()),
			Address:    m.Address().String(),
			Father:     fullName(m.Father()),
			Mother:     fullName(m.Mother()),
			Spouse:     fullName(m.Spouse()),
		}
		for _, c := range m.Children() {
			ms.Children = append(ms.Children, fullName(c))
		}
		sum.Members = append(sum.Members, ms)
	}
	return sum
}

func fullName(m *domain.Member) string {
	if m == nil {
		return ""
	}
	return m.FirstName() + " " + m.LastName()
}

func writeSummary(w io.Writer, format string, sum treeSummary) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sum); err != nil {
		return err
	}
	return enc.Close()
}
