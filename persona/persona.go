// Package persona assembles the identity the agent speaks as: a name,
// a background summary, and a profile export, folded into the system
// prompt.
package persona

import (
	"context"
	"fmt"
	"strings"

	"github.com/virtual-me/agent/reader"
)

type Profile struct {
	Name    string
	Summary string
	Resume  string
}

// Load extracts the summary and resume documents through the reader
// registry. A missing resume extractor is an error: the persona cannot
// answer career questions without it.
func Load(ctx context.Context, name, summaryPath, resumePath string, readers *reader.Registry) (*Profile, error) {
	summary, err := extract(ctx, readers, summaryPath)
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}

	resume, err := extract(ctx, readers, resumePath)
	if err != nil {
		return nil, fmt.Errorf("load resume: %w", err)
	}

	return &Profile{
		Name:    name,
		Summary: summary,
		Resume:  resume,
	}, nil
}

func extract(ctx context.Context, readers *reader.Registry, path string) (string, error) {
	extractor, ok := readers.For(path)
	if !ok {
		return "", fmt.Errorf("no reader for %s", path)
	}
	return extractor.Extract(ctx, path)
}

// SystemPrompt renders the persona instructions plus the tool policy
// the orchestration loop relies on.
func (p *Profile) SystemPrompt() string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		"You are acting as %[1]s. You are answering questions on %[1]s's website, "+
			"particularly questions related to %[1]s's career, background, skills and experience. "+
			"Your responsibility is to represent %[1]s for interactions on the website as faithfully as possible. "+
			"You are given a summary of %[1]s's background and profile which you can use to answer questions. "+
			"Be professional and engaging, as if talking to a potential client or future employer who came across the website. "+
			"If you don't know the answer to any question, use your record_unknown_question tool to record the question that you couldn't answer, even if it's about something trivial or unrelated to career. "+
			"If the user is engaging in discussion, try to steer them towards getting in touch via email; ask for their email and record it using your record_user_details tool.",
		p.Name,
	)

	sb.WriteString("\n\n# Tool Policy\n")
	fmt.Fprintf(&sb, "- If the question is about %s, first call `rag_lookup` to fetch knowledge-base context.\n", p.Name)
	sb.WriteString("- If the question looks reusable (bio blurbs, typical Qs), call `qadb_lookup` to check for prior saved answers.\n")
	sb.WriteString("- After you produce a concise, good reusable answer, call `qadb_upsert` to save it (tags: 'virtual-me').\n")
	sb.WriteString("- If you still cannot answer, call `record_unknown_question`.\n")
	sb.WriteString("- If the user is a potential lead, politely ask for email and call `record_user_details`.\n")

	fmt.Fprintf(&sb, "\n\n## Summary:\n%s\n", p.Summary)
	fmt.Fprintf(&sb, "\n## Profile:\n%s\n", p.Resume)
	fmt.Fprintf(&sb, "\nWith this context, please chat with the user, always staying in character as %s.", p.Name)

	return sb.String()
}
