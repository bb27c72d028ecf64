// Package docs turns retrieved context into architecture documentation via
// the completion service.
package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/archimind/archimind/internal/llm"
)

const handbookPrompt = `You are a principal software architect. Using ONLY the supplied project context, craft a chapter-wise technical handbook for the '%s' repository in GitHub-flavoured Markdown.

Strictly follow the structure below:

# %s Architecture Handbook
- Concise executive summary bullet list (<=5 bullets)
- Table of contents linking to every chapter anchor

## Chapter 1: System Overview
## Chapter 2: Architecture Blueprint
## Chapter 3: Data & Storage
## Chapter 4: Runtime Behaviour
## Chapter 5: Extension Roadmap

Rules:
- Start every chapter heading exactly with "## Chapter N: ...".
- Keep sub-sections concise (3-6 sentences or bullet lists).
- Never invent functionality that is absent from the context.
- Use inline code formatting for important symbols, file names, APIs, or commands.

--- RELEVANT CONTEXT ---
%s
---

Return only the Markdown document.`

const hldPrompt = `You are a senior software architect. From the supplied context of '%s', craft a JSON specification for a force-directed architecture graph.

Output a single JSON object (no Markdown code fences) with keys "title", "description", "nodes" and "links". Each node has "id", "label", "type" (client|service|datastore|external), "group" and integer "layer". Each link has "source", "target", "label" and "channel" (REST|gRPC|Event|DB|Queue|Other).

Rules:
- Include between 6 and 12 nodes.
- Ensure all nodes referenced by links exist.
- Use precise labels derived from the provided context only.

--- RELEVANT CONTEXT ---
%s
---

Return only valid JSON.`

const lldPrompt = `You are a staff-level engineer. Using the provided context for '%s', produce a JSON workflow model that captures the primary runtime path end-to-end.

Output a single JSON object (no Markdown fences) with keys "title", "description", "nodes" and "links". Each node has "id", "label", "type" (start|end|action|process|decision|async|data), integer "layer" and short "notes". Each link has "source", "target", "label" and "path" (success|failure|async|default).

Rules:
- Use between 8 and 14 nodes covering the happy path plus error handling.
- Include at least one decision node with explicit labelled branches.
- Derive all labels from the given context; no hallucinations.

--- RELEVANT CONTEXT ---
%s
---

Return only valid JSON.`

// Generator produces documentation artifacts from a context string.
type Generator struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewGenerator creates a documentation generator.
func NewGenerator(completer llm.Completer) *Generator {
	return &Generator{
		completer: completer,
		logger:    slog.Default(),
	}
}

// Handbook generates the chapter-wise architecture handbook in Markdown.
func (g *Generator) Handbook(ctx context.Context, repoName, contextStr string) (string, error) {
	return g.complete(ctx, fmt.Sprintf(handbookPrompt, repoName, repoName, contextStr))
}

// HighLevelDesign generates the HLD architecture graph as JSON.
func (g *Generator) HighLevelDesign(ctx context.Context, repoName, contextStr string) (string, error) {
	return g.complete(ctx, fmt.Sprintf(hldPrompt, repoName, contextStr))
}

// LowLevelDesign generates the LLD workflow model as JSON.
func (g *Generator) LowLevelDesign(ctx context.Context, repoName, contextStr string) (string, error) {
	return g.complete(ctx, fmt.Sprintf(lldPrompt, repoName, contextStr))
}

// Bundle holds every generated artifact. Fields left empty when their
// generation failed.
type Bundle struct {
	Handbook string
	HLD      string
	LLD      string
}

// All generates every documentation type, degrading per artifact instead of
// aborting the batch.
func (g *Generator) All(ctx context.Context, repoName, contextStr string) (Bundle, error) {
	var bundle Bundle
	var errs []error

	var err error
	if bundle.Handbook, err = g.Handbook(ctx, repoName, contextStr); err != nil {
		errs = append(errs, fmt.Errorf("handbook: %w", err))
	}
	if bundle.HLD, err = g.HighLevelDesign(ctx, repoName, contextStr); err != nil {
		errs = append(errs, fmt.Errorf("hld: %w", err))
	}
	if bundle.LLD, err = g.LowLevelDesign(ctx, repoName, contextStr); err != nil {
		errs = append(errs, fmt.Errorf("lld: %w", err))
	}

	return bundle, errors.Join(errs...)
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	out, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
