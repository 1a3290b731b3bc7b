package architecture

import (
	"fmt"
	"strings"

	"merngen/internal/types"
)

const systemPrompt = `You are an expert software architect. Generate a complete project architecture as JSON.
%s

CRITICAL RULES:
- Output ONLY valid JSON, no markdown, no explanations
- All file paths must include extensions (.js, .jsx, .ts, .tsx, .json, .css, .html, etc.)
- No duplicate file paths or folder paths
- Use standard npm package names only
- Include essential files: package.json, .gitignore, README.md
- Frontend should include index.html if web app
- Backend should include server entry point (index.js or index.ts) in the ROOT of the backend folder, NOT in src/.
- DO NOT include "frontend" or "backend" in folder/file paths (they are already in frontend/backend directories)
- If projectType is "frontend", backend object should be: {"files": [], "folders": [], "dependencies": [], "devDependencies": []}
- If projectType is "backend", frontend object should be: {"files": [], "folders": [], "dependencies": [], "devDependencies": []}
- RESPECT the user's language preference (JavaScript vs TypeScript) from the prompt.
- IF TypeScript is requested:
  - File extensions MUST be .ts or .tsx (except config files).
  - Include "typescript", "@types/node", etc. in devDependencies.
- IF JavaScript is requested (or default):
  - File extensions MUST be .js or .jsx.
  - DO NOT include "typescript" in dependencies.
- Ensure consistency: Don't mix .ts files with no typescript dependency, or .js files with typescript dependency.

JSON SCHEMA:
{
  "projectName": "string (kebab-case)",
  "description": "string",
  "techStack": {
    "frontend": ["string"],
    "backend": ["string"],
    "database": "string",
    "tools": ["string"]
  },
  "frontend": {
    "framework": "string (react, vue, next, svelte, vanilla, etc.)",
    "dependencies": ["string"],
    "devDependencies": ["string"],
    "folders": ["string (relative paths, NO 'frontend/' prefix)"],
    "files": ["string (relative paths with extensions, NO 'frontend/' prefix)"]
  },
  "backend": {
    "framework": "string (express, fastify, nest, etc.)",
    "dependencies": ["string"],
    "devDependencies": ["string"],
    "folders": ["string (relative paths, NO 'backend/' prefix)"],
    "files": ["string (relative paths with extensions, NO 'backend/' prefix. Entry point must be here)"]
  },
  "rootFiles": ["string (files in project root)"],
  "scripts": {
    "install": "string",
    "start": "string",
    "dev": "string"
  }
}`

func typeInstruction(pt types.ProjectType) string {
	switch pt {
	case types.ProjectFrontend:
		return "IMPORTANT: This is a FRONTEND-ONLY project. Set backend to empty object {} or minimal structure."
	case types.ProjectBackend:
		return "IMPORTANT: This is a BACKEND-ONLY project. Set frontend to empty object {} or minimal structure."
	default:
		return "IMPORTANT: This is a FULLSTACK project. Include both frontend and backend."
	}
}

// BuildPrompt renders the full instruction text sent to the generative
// backend for one attempt.
func BuildPrompt(userPrompt string, pt types.ProjectType) string {
	var b strings.Builder
	fmt.Fprintf(&b, systemPrompt, typeInstruction(pt))
	if LanguageFromPrompt(userPrompt) == types.LangTypeScript {
		b.WriteString("\n\nThe user asked for TypeScript.")
	}
	fmt.Fprintf(&b, "\n\nUser Request: %q\n\nGenerate the architecture JSON now:", strings.TrimSpace(userPrompt))
	return b.String()
}
