package materialize

import (
	"context"
	"path"
	"regexp"
	"strings"

	"merngen/internal/errs"
	"merngen/internal/safeio"
	"merngen/internal/ui"
)

const (
	tailwindImport    = "import tailwindcss from '@tailwindcss/vite'"
	tailwindDirective = `@import "tailwindcss";`
	viteConfigDefault = `import { defineConfig } from 'vite'
import react from '@vitejs/plugin-react'
import tailwindcss from '@tailwindcss/vite'

export default defineConfig({
  plugins: [
    tailwindcss(),
    react(),
  ],
})
`
)

var (
	tailwindPackages = []string{"tailwindcss", "@tailwindcss/vite"}
	viteConfigs      = []string{"vite.config.ts", "vite.config.js"}
	stylesheets      = []string{"src/index.css", "src/main.css", "src/App.css", "index.css", "main.css"}

	reactPluginImport  = regexp.MustCompile(`import\s+react\s+from\s+['"]@vitejs/plugin-react(?:-swc)?['"];?`)
	defineConfigImport = regexp.MustCompile(`import\s*\{\s*defineConfig\s*\}\s*from\s*['"]vite['"];?`)
	pluginsWithReact   = regexp.MustCompile(`plugins:\s*\[\s*react\(\)`)
	pluginsOpen        = regexp.MustCompile(`plugins:\s*\[`)
)

// WireTailwind integrates Tailwind CSS into the vite project under side. Each
// step is best effort; the failures are returned as warnings. Running it twice
// leaves the files unchanged.
func WireTailwind(ctx context.Context, fsys *safeio.SafeFS, side string, inst Installer) []error {
	var warnings []error
	ui.Stepf(ctx, "Setting up Tailwind CSS...")

	if inst != nil {
		if dir, err := fsys.Join(side); err == nil {
			if err := inst.Install(ctx, dir, tailwindPackages, false); err != nil {
				warnings = append(warnings, err)
			}
		}
	}
	if err := wireViteConfig(ctx, fsys, side); err != nil {
		warnings = append(warnings, errs.Wrap(errs.EStyleWiring, "vite config", err))
	}
	if err := wireStylesheet(ctx, fsys, side); err != nil {
		warnings = append(warnings, errs.Wrap(errs.EStyleWiring, "stylesheet", err))
	}

	postcss := path.Join(side, "postcss.config.js")
	if fsys.Exists(postcss) {
		if err := fsys.SafeRemove(postcss); err != nil {
			warnings = append(warnings, errs.Wrap(errs.EStyleWiring, "remove postcss.config.js", err))
		} else {
			ui.Infof(ctx, "Removed auto-generated postcss.config.js")
		}
	}
	return warnings
}

func wireViteConfig(ctx context.Context, fsys *safeio.SafeFS, side string) error {
	for _, name := range viteConfigs {
		rel := path.Join(side, name)
		raw, err := fsys.SafeReadFile(rel)
		if err != nil {
			continue
		}
		content := string(raw)
		if strings.Contains(content, "@tailwindcss/vite") {
			ui.Infof(ctx, "%s already has Tailwind plugin", name)
			return nil
		}
		if err := fsys.SafeWriteFile(rel, []byte(PatchViteConfig(content)), 0o644); err != nil {
			return err
		}
		ui.Successf(ctx, "Updated %s with Tailwind plugin", name)
		return nil
	}
	if err := fsys.SafeWriteFile(path.Join(side, "vite.config.ts"), []byte(viteConfigDefault), 0o644); err != nil {
		return err
	}
	ui.Successf(ctx, "Created vite.config.ts with Tailwind plugin")
	return nil
}

// PatchViteConfig adds the Tailwind import and plugin registration to a vite
// config. Content that already references @tailwindcss/vite is returned as is.
func PatchViteConfig(content string) string {
	if strings.Contains(content, "@tailwindcss/vite") {
		return content
	}
	switch {
	case reactPluginImport.MatchString(content):
		content = insertAfter(content, reactPluginImport, tailwindImport)
	case defineConfigImport.MatchString(content):
		content = insertAfter(content, defineConfigImport, tailwindImport)
	default:
		content = tailwindImport + "\n" + content
	}

	switch {
	case strings.Contains(content, "plugins: [react()]"):
		content = strings.Replace(content, "plugins: [react()]", "plugins: [tailwindcss(), react()]", 1)
	case pluginsWithReact.MatchString(content):
		content = replaceFirst(content, pluginsWithReact, "plugins: [\n    tailwindcss(),\n    react()")
	case pluginsOpen.MatchString(content):
		content = replaceFirst(content, pluginsOpen, "plugins: [tailwindcss(), ")
	}
	return content
}

func insertAfter(content string, re *regexp.Regexp, line string) string {
	loc := re.FindStringIndex(content)
	return content[:loc[1]] + "\n" + line + content[loc[1]:]
}

func replaceFirst(content string, re *regexp.Regexp, repl string) string {
	loc := re.FindStringIndex(content)
	return content[:loc[0]] + repl + content[loc[1]:]
}

func wireStylesheet(ctx context.Context, fsys *safeio.SafeFS, side string) error {
	for _, name := range stylesheets {
		rel := path.Join(side, name)
		raw, err := fsys.SafeReadFile(rel)
		if err != nil {
			continue
		}
		if strings.Contains(string(raw), `@import "tailwindcss"`) {
			ui.Infof(ctx, "Tailwind import already present in %s", name)
			return nil
		}
		if err := fsys.SafeWriteFile(rel, []byte(tailwindDirective+"\n\n"+string(raw)), 0o644); err != nil {
			return err
		}
		ui.Successf(ctx, "Added Tailwind import to %s", name)
		return nil
	}
	if err := fsys.SafeWriteFile(path.Join(side, "src/index.css"), []byte(tailwindDirective+"\n"), 0o644); err != nil {
		return err
	}
	ui.Successf(ctx, "Created new src/index.css with Tailwind import")
	return nil
}
