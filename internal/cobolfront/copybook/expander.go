// Package copybook implements the single-pass COPY expansion of spec.md
// §4.5: every COPY statement is replaced in place by the token sublist
// produced from lexing the named copybook file, with the iteration index
// reset so nested COPYs inside a freshly spliced copybook are themselves
// expanded.
package copybook

import (
	"fmt"

	"github.com/cobolfront/cobolfront/internal/cobolfront/diagnostic"
	"github.com/cobolfront/cobolfront/internal/cobolfront/lexer"
	"github.com/cobolfront/cobolfront/internal/cobolfront/source"
	"github.com/cobolfront/cobolfront/internal/cobolfront/token"
)

// FileProvider resolves a copybook name to its byte content. It is the
// same shape as the core's top-level file provider (spec.md §6) declared
// locally so this package has no dependency on the driver package.
type FileProvider interface {
	Open(path string) ([]byte, error)
}

// Expand performs the single splicing pass over tokens, returning the
// expanded slice. opts supplies the current compile options (format,
// column length) new copybook files are lexed under, and records each
// copybook's path in its file list. rep receives a Fatal diagnostic for
// any copybook that cannot be opened; on that path the offending COPY
// statement is left untouched in the output (so the caller still gets a
// token list, just not one satisfying the "no COPY tokens remain"
// invariant for that one statement).
func Expand(tokens []token.Token, opts *source.Options, provider FileProvider, rep diagnostic.Reporter) []token.Token {
	i := 0
	for i < len(tokens) {
		if tokens[i].Kind != token.KindEOF && tokens[i].EqualsLiteral("COPY") {
			if spliced, end, ok := expandOne(tokens, i, opts, provider, rep); ok {
				tokens = spliced
				continue // reset to i: nested COPYs in the splice are caught next iteration
			} else {
				i = end // skip the malformed/unreadable statement, avoid looping forever
				continue
			}
		}
		i++
	}
	return tokens
}

// expandOne expands the single COPY statement starting at i. It returns
// the resulting token slice, the index just past the statement (used to
// skip forward on failure), and whether the splice succeeded.
func expandOne(tokens []token.Token, i int, opts *source.Options, provider FileProvider, rep diagnostic.Reporter) ([]token.Token, int, bool) {
	j := i + 1
	if j >= len(tokens) || tokens[j].Kind == token.KindEOF {
		rep.Report(diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Headline: "COPY statement missing copybook name",
			Line:     tokens[i].Line,
			Column:   tokens[i].Column,
			File:     tokens[i].File,
		})
		return tokens, j, false
	}
	name := tokens[j].Lexeme
	j++

	for j < len(tokens) && tokens[j].Lexeme != "." && tokens[j].Kind != token.KindEOF {
		j++
	}
	if j < len(tokens) && tokens[j].Lexeme == "." {
		j++ // consume the terminating period
	}

	content, path, err := openCopybook(provider, name)
	if err != nil {
		rep.Report(diagnostic.Diagnostic{
			Severity: diagnostic.Fatal,
			Headline: fmt.Sprintf("cannot read copybook %q", name),
			Line:     tokens[i].Line,
			Column:   tokens[i].Column,
			File:     tokens[i].File,
			Notes:    []string{err.Error()},
		})
		return tokens, j, false
	}

	fileIdx := opts.AddFile(path)
	spliced := lexFile(content, fileIdx, opts, rep)

	out := make([]token.Token, 0, len(tokens)-(j-i)+len(spliced))
	out = append(out, tokens[:i]...)
	out = append(out, spliced...)
	out = append(out, tokens[j:]...)
	return out, j, true
}

// openCopybook tries the copybook name verbatim, then with a ".cob"
// extension — file lookup otherwise inherits OS semantics (spec.md §9,
// Open Questions).
func openCopybook(provider FileProvider, name string) (content []byte, path string, err error) {
	if content, err = provider.Open(name); err == nil {
		return content, name, nil
	}
	withExt := name + ".cob"
	if content, err2 := provider.Open(withExt); err2 == nil {
		return content, withExt, nil
	}
	return nil, "", err
}

// lexFile runs the reader -> normalizer -> directive -> lexer stages over
// one copybook's bytes, the same pipeline the driver runs for the entry
// point and workspace files.
func lexFile(content []byte, fileIdx int, opts *source.Options, rep diagnostic.Reporter) []token.Token {
	var out []token.Token
	reader := source.NewLineReader(content)
	norm := source.NewNormalizer(opts)
	for {
		line, lineNo, ok := reader.Next()
		if !ok {
			break
		}
		normalized := norm.Normalize(line)
		source.ProcessDirectives(normalized, opts)
		out = lexer.LexLine(out, normalized, lineNo, fileIdx, rep)
	}
	return out
}
