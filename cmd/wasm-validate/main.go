package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	wasmvalidate "github.com/wippyai/wasm-validate"
	"github.com/wippyai/wasm-validate/errors"
	"github.com/wippyai/wasm-validate/iface"
	"github.com/wippyai/wasm-validate/model"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to core wasm module")
		witFile     = flag.String("wit", "", "Path to WIT interface file")
		coreFile    = flag.String("core", "", "Path to core signature file (name: (i32) -> (i32) per line)")
		features    = flag.String("features", "v1", "Core features accepted by the structural gate (v1, v2, threads)")
		list        = flag.Bool("list", false, "Print the module type model and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose debug logging to stderr")
	)
	flag.Parse()

	if *wasmFile == "" || (!*list && *witFile == "" && *coreFile == "") {
		fmt.Fprintln(os.Stderr, "Usage: wasm-validate -wasm <file.wasm> -wit <file.wit> [-features v1|v2|threads]")
		fmt.Fprintln(os.Stderr, "       wasm-validate -wasm <file.wasm> -core <file.txt>")
		fmt.Fprintln(os.Stderr, "       wasm-validate -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       wasm-validate -wasm <file.wasm> -wit <file.wit> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		wasmvalidate.SetLogger(log)
	}

	feats, err := parseFeatures(*features)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	v := wasmvalidate.New(&wasmvalidate.Config{Features: feats})

	if *interactive {
		if err := runInteractive(v, *wasmFile, *witFile, *coreFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(v, *wasmFile, *witFile, *coreFile, *list); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func parseFeatures(s string) (api.CoreFeatures, error) {
	switch strings.ToLower(s) {
	case "", "v1":
		return api.CoreFeaturesV1, nil
	case "v2":
		return api.CoreFeaturesV2, nil
	case "threads":
		return api.CoreFeaturesV2 | experimental.CoreFeaturesThreads, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("unknown feature set %q", s))
	}
}

func loadInterface(witFile, coreFile string) (*iface.Interface, error) {
	switch {
	case witFile != "" && coreFile != "":
		return nil, errors.InvalidInput(errors.PhaseLoad, "-wit and -core are mutually exclusive")
	case witFile != "":
		text, err := os.ReadFile(witFile)
		if err != nil {
			return nil, errors.Load("read WIT file", err)
		}
		return iface.ParseWIT(string(text))
	case coreFile != "":
		text, err := os.ReadFile(coreFile)
		if err != nil {
			return nil, errors.Load("read core signature file", err)
		}
		return iface.ParseCore(string(text))
	default:
		return nil, errors.InvalidInput(errors.PhaseLoad, "no interface file given")
	}
}

func run(v *wasmvalidate.Validator, wasmFile, witFile, coreFile string, listOnly bool) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return errors.Load("read module", err)
	}

	if listOnly {
		m, err := v.Extract(data)
		if err != nil {
			return err
		}
		printModel(wasmFile, m)
		return nil
	}

	in, err := loadInterface(witFile, coreFile)
	if err != nil {
		return err
	}

	_, report, err := v.Inspect(in, data)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n\n", titleStyle.Render("Module"), wasmFile)
	for _, res := range report.Results {
		fmt.Println(formatResult(res))
	}
	if len(report.Undeclared) > 0 {
		fmt.Printf("\n%s %s\n", helpStyle.Render("Undeclared exports:"), strings.Join(report.Undeclared, ", "))
	}

	if err := report.Err(); err != nil {
		return err
	}
	fmt.Printf("\n%s\n", okStyle.Render(fmt.Sprintf("%d functions conform", len(report.Results))))
	return nil
}

func printModel(wasmFile string, m *model.Model) {
	fmt.Printf("%s %s\n", titleStyle.Render("Module"), wasmFile)

	fmt.Printf("\nTypes: %d\n", m.Types.Len())
	m.Types.Each(func(idx model.TypeIndex, sig model.Signature) bool {
		fmt.Printf("  [%d] %s\n", idx, typeStyle.Render(sig.String()))
		return true
	})

	fmt.Printf("\nFunctions: %d (%d imported)\n", m.Funcs.Len(), m.NumImported())
	m.Funcs.Each(func(idx model.FuncIndex, f model.Func) bool {
		origin := "local"
		if f.Imported() {
			origin = "import " + f.Origin.String()
		}
		fmt.Printf("  [%d] type %d %s\n", idx, f.Type, helpStyle.Render(origin))
		return true
	})

	fmt.Printf("\nExports: %d\n", len(m.Exports))
	for _, name := range m.ExportNames() {
		idx, _ := m.Export(name)
		sig, err := m.Signature(idx)
		if err != nil {
			fmt.Printf("  %s -> func %d %s\n", funcStyle.Render(name), idx, errorStyle.Render(err.Error()))
			continue
		}
		fmt.Printf("  %s -> func %d %s\n", funcStyle.Render(name), idx, typeStyle.Render(sig.String()))
	}
}
