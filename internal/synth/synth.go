// Package synth produces boilerplate file contents for paths named by an
// architecture document. Dispatch is by extension and basename.
package synth

import (
	"bytes"
	"path"
	"strings"
	"text/template"
	"unicode"

	"merngen/internal/types"
	"merngen/internal/util/jsonutil"
)

var entryNames = map[string]bool{"index": true, "main": true, "app": true, "server": true}

var (
	serverTmpl = template.Must(template.New("server").Parse(`import express from 'express';
import cors from 'cors';
import dotenv from 'dotenv';

dotenv.config();

const app = express();
const PORT = process.env.PORT || 5001;

app.use(cors());
app.use(express.json());

app.get('/', (req, res) => {
  res.json({ message: 'API is running', project: {{printf "%q" .Project}} });
});

app.listen(PORT, () => {
  console.log(` + "`Server running on http://localhost:${PORT}`" + `);
});

export default app;
`))

	clientTmpl = template.Must(template.New("client").Parse(`import React from "react";
import ReactDOM from "react-dom/client";
import "./index.css";

function App() {
  return (
    <div className="app">
      <h1>{{.Project}}</h1>
      <p>Welcome to your new project!</p>
    </div>
  );
}

const root = ReactDOM.createRoot(document.getElementById("root"));
root.render(<App />);
`))

	stubTmpl = template.Must(template.New("stub").Parse(`// {{.File}}
export default function {{.Ident}}() {
  return null;
}
`))

	htmlTmpl = template.Must(template.New("html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Project}}</title>
</head>
<body>
  <div id="root"></div>
</body>
</html>
`))
)

const (
	cssReset = `* {
  margin: 0;
  padding: 0;
  box-sizing: border-box;
}

body {
  font-family: system-ui, sans-serif;
}
`
	envDefaults = "PORT=5000\nNODE_ENV=development\n"
	gitignore   = "node_modules/\n.env\n.DS_Store\ndist/\nbuild/\n*.log\n"
)

type tmplData struct {
	Project string
	File    string
	Ident   string
}

// Synthesize returns the boilerplate for targetPath. It never fails; an
// unrecognized file yields empty content.
func Synthesize(targetPath string, doc *types.ArchitectureDocument, projectName string, lang types.Language) string {
	p := strings.ReplaceAll(targetPath, `\`, "/")
	base := path.Base(p)
	ext := strings.ToLower(path.Ext(base))
	name := strings.TrimSuffix(base, path.Ext(base))
	dir := path.Dir(p)

	if base == ".env" || ext == ".env" {
		return envDefaults
	}
	if base == ".gitignore" {
		return gitignore
	}

	data := tmplData{Project: projectName, File: name + ext, Ident: identifier(name)}
	switch ext {
	case ".json":
		switch name {
		case "package":
			return packageManifest(p, doc, projectName, lang)
		case "tsconfig":
			return tsconfig
		}
		return "{}\n"
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		if entryNames[strings.ToLower(name)] {
			switch {
			case strings.Contains(dir, "backend") || strings.Contains(dir, "server"):
				return render(serverTmpl, data)
			case strings.Contains(dir, "frontend") || strings.Contains(dir, "client"):
				return render(clientTmpl, data)
			}
		}
		return render(stubTmpl, data)
	case ".css":
		return cssReset
	case ".html":
		return render(htmlTmpl, data)
	case ".md":
		return "# " + projectName + "\n\nGenerated by mern-gen\n"
	}
	return ""
}

func render(t *template.Template, data tmplData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// identifier turns a file stem into a valid JavaScript function name.
func identifier(stem string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range stem {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
			continue
		}
		upperNext = b.Len() > 0
	}
	id := b.String()
	if id == "" {
		return "Module"
	}
	if first := []rune(id)[0]; unicode.IsDigit(first) {
		id = "_" + id
	}
	if reserved[id] {
		id += "Module"
	}
	return id
}

var reserved = map[string]bool{
	"default": true, "function": true, "class": true, "export": true,
	"import": true, "return": true, "new": true, "delete": true,
	"switch": true, "case": true, "var": true, "let": true, "const": true,
}

// Scripts returns the start/dev commands for a side and language.
func Scripts(side types.Side, lang types.Language) (start, dev string) {
	if side == types.SideBackend {
		if lang == types.LangTypeScript {
			return "node dist/index.js", "nodemon --exec tsx index.ts"
		}
		return "node index.js", "nodemon index.js"
	}
	if lang == types.LangTypeScript {
		return "node dist/index.js", "tsx watch index.ts"
	}
	return "node index.js", "node --watch index.js"
}

type manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func packageManifest(p string, doc *types.ArchitectureDocument, projectName string, lang types.Language) string {
	side := types.SideFrontend
	if strings.Contains(p, "backend") {
		side = types.SideBackend
	}
	start, dev := Scripts(side, lang)
	m := manifest{
		Name:            manifestName(projectName),
		Version:         "1.0.0",
		Type:            "module",
		Scripts:         map[string]string{"start": start, "dev": dev},
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	if doc != nil {
		s := doc.Side(side)
		for _, d := range s.Dependencies {
			m.Dependencies[d] = "latest"
		}
		for _, d := range s.DevDependencies {
			m.DevDependencies[d] = "latest"
		}
	}
	out, err := jsonutil.MarshalNoEscapeIndent(m, "", "  ")
	if err != nil {
		return "{}\n"
	}
	return string(out) + "\n"
}

// manifestName lowercases name and joins whitespace runs with '-'.
func manifestName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

const tsconfig = `{
  "compilerOptions": {
    "target": "ES2020",
    "module": "ESNext",
    "lib": ["ES2020"],
    "strict": true,
    "esModuleInterop": true,
    "skipLibCheck": true,
    "forceConsistentCasingInFileNames": true,
    "moduleResolution": "node",
    "resolveJsonModule": true,
    "isolatedModules": true,
    "noEmit": true
  },
  "include": ["src"],
  "exclude": ["node_modules"]
}
`
