package rules

import (
	"regexp"

	"flachtex/pkg/contract"
	"flachtex/pkg/span"
)

// NativeImportRule matches \input{path} and \include{path}, the two
// built-in LaTeX inclusion commands. Unlike the reference implementation,
// the path group excludes whitespace: a stray space before the closing
// brace is far more likely to be a typo than an intentional filename.
type NativeImportRule struct{}

var nativeImportRe = regexp.MustCompile(`(?m)^(?:[^%\n]|\\%)*?(\\(?:input|include)\{([^}\s]*)\})`)

func (NativeImportRule) FindAll(content string) ([]contract.ImportMatch, error) {
	var out []contract.ImportMatch
	for _, m := range nativeImportRe.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, contract.ImportMatch{
			Range: span.Range{Begin: m[2], End: m[3]},
			Path:  content[m[4]:m[5]],
		})
	}
	return out, nil
}

// SubimportRule matches \subimport{dir}{file} and \subimport*{dir}{file},
// joining dir and file into a single resolvable path, the same way the
// reference implementation joins them with os.path.join before handing the
// result to the file finder: a "/" is inserted only when dir is non-empty
// and does not already end in one.
type SubimportRule struct{}

var subimportRe = regexp.MustCompile(`(?m)^(?:[^%]|\\%)*?(\\subimport\*?\{([^}]*)\}\{([^}]*)\})`)

func (SubimportRule) FindAll(content string) ([]contract.ImportMatch, error) {
	var out []contract.ImportMatch
	for _, m := range subimportRe.FindAllStringSubmatchIndex(content, -1) {
		dir := content[m[4]:m[5]]
		file := content[m[6]:m[7]]
		if dir != "" && dir[len(dir)-1] != '/' {
			dir += "/"
		}
		out = append(out, contract.ImportMatch{
			Range: span.Range{Begin: m[2], End: m[3]},
			Path:  dir + file,
		})
	}
	return out, nil
}

// ExplicitImportRule matches the %%FLACHTEX-EXPLICIT-IMPORT[path] marker,
// an escape hatch for references a macro expansion would otherwise hide
// from the two rules above. The path group is bracket-delimited, fixing a
// bug in the reference implementation that borrowed the brace-delimited
// rule's character class here instead of excluding ']'.
type ExplicitImportRule struct{}

var explicitImportRe = regexp.MustCompile(`(?m)^[ \t]*(%%FLACHTEX-EXPLICIT-IMPORT\[([^\]]*)\])`)

func (ExplicitImportRule) FindAll(content string) ([]contract.ImportMatch, error) {
	var out []contract.ImportMatch
	for _, m := range explicitImportRe.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, contract.ImportMatch{
			Range: span.Range{Begin: m[2], End: m[3]},
			Path:  content[m[4]:m[5]],
		})
	}
	return out, nil
}
