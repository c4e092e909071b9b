package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/parse"
	"src.cronus.dev/pkg/store"
	"src.cronus.dev/pkg/sys"
)

// Writes a tree in the format chosen by o.dump.
func dumpTree(w io.Writer, tree ast.Node, o *options) error {
	switch o.dump {
	case "none":
		return nil
	case "json":
		b, err := json.Marshal(ast.Dump(tree, o.positions))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ast.Dump(tree, o.positions)); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintln(w, ast.Format(tree))
	return err
}

// An auxiliary struct for converting parse errors to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// Converts a parse error into JSON.
func errorsToJSON(err error) []byte {
	var converted []errorInJSON
	var e *parse.Error
	if errors.As(err, &e) {
		converted = append(converted,
			errorInJSON{e.Context.Name, e.Context.From, e.Context.To, e.Type, e.Message})
	} else {
		converted = append(converted, errorInJSON{Message: err.Error()})
	}
	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}

type statsInJSON struct {
	Fills       int            `json:"fills"`
	Hits        map[string]int `json:"hits"`
	Accumulated map[string]int `json:"accumulated,omitempty"`
}

// Saves the memo hit counters in the store, and shows them if -stats is
// given. With a store, the totals accumulated across runs are shown too.
func showStats(fds [3]*os.File, o *options, stats *parse.Stats, st store.DBStore) {
	hits := stats.Named()
	var total map[string]int
	if st != nil {
		if err := st.AddRuleHits(hits); err != nil {
			logger.Println("cannot save statistics:", err)
		} else if total, err = st.RuleHits(); err != nil {
			logger.Println("cannot load statistics:", err)
		}
	}
	if !o.stats {
		return
	}
	if o.json {
		b, err := json.Marshal(statsInJSON{stats.Fills, hits, total})
		if err != nil {
			fmt.Fprintln(fds[2], "cannot convert statistics to JSON:", err)
			return
		}
		fmt.Fprintf(fds[1], "%s\n", b)
		return
	}
	width := sys.Width(fds[1], 0)
	fmt.Fprintf(fds[1], "Token fills: %d\nMemo hits: %d\n", stats.Fills, stats.Total())
	parse.WriteTable(fds[1], hits, width)
	if total != nil {
		fmt.Fprintln(fds[1], "Accumulated memo hits:")
		parse.WriteTable(fds[1], total, width)
	}
}

// Shows the last n statements of the history.
func showHistory(fds [3]*os.File, st store.DBStore, n int) error {
	next, err := st.NextCmdSeq()
	if err != nil {
		return err
	}
	cmds, err := st.Cmds(max(next-n, 0), next)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		fmt.Fprintf(fds[1], "%5d  %s\n", cmd.Seq, cmd.Text)
	}
	return nil
}
