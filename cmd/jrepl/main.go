package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/xiul/Jacob/lr"
	"github.com/xiul/Jacob/lr/codegen"
	"github.com/xiul/Jacob/lr/parser"
	"github.com/xiul/Jacob/lr/scanner/lexmach"
)

// main() starts an interactive CLI ("J.REPL"), where users may enter input
// for a language. J.REPL will parse each line, evaluate it with the actions
// of the language and print out the result. Lines starting with ':' are
// commands to inspect the automaton and the parser tables.
//
// Languages are read from YAML language files, see type Language. Without a
// language file, J.REPL loads a small calculator language.
//
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	langf := flag.String("lang", "", "Language file (YAML)")
	mode := flag.String("mode", "", "Table construction mode [SLR|LALR1|LR1]")
	initf := flag.String("init", "", "Initial load")
	flag.Parse()
	for _, key := range []string{"jacob.repl", "jacob.lr", "jacob.scanner"} {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}
	pterm.Info.Println("Welcome to JREPL") // colored welcome message
	//
	// set up language and parser
	lang, err := loadLanguage(*langf)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if *mode != "" {
		lang.Mode = *mode
	}
	intp := &Intp{}
	if err = intp.Load(lang); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	intp.Grammar.Dump() // only visible in debug mode
	//
	// set up REPL
	intp.repl, err = readline.New("jrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer intp.repl.Close()
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		tracer().Infof("Input argument is \"%s\"", input)
		intp.Eval(input)
	}
	pterm.Info.Println("Quit with <ctrl>D or :quit") // inform user how to stop the CLI
	intp.loadInitFile(*initf)                         // init file name provided by flag
	intp.REPL()                                       // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func loadLanguage(filename string) (*Language, error) {
	if filename == "" {
		return ReadLanguage(strings.NewReader(defaultLanguage))
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to open language file: %w", err)
	}
	defer f.Close()
	return ReadLanguage(f)
}

// Intp is our interpreter object
type Intp struct {
	Lang    *Language
	Grammar *lr.Grammar
	Mode    lr.Mode
	lexer   *lexmach.Lexer
	lrgen   *lr.TableGenerator
	parser  *parser.Parser // nil if the grammar is not suitable for Mode
	repl    *readline.Instance
}

// Load builds lexer, grammar and parser for a language.
func (intp *Intp) Load(lang *Language) error {
	spec, err := lang.TokenSpec()
	if err != nil {
		return err
	}
	lexer, err := lexmach.Build(spec)
	if err != nil {
		return err
	}
	g, err := lang.Grammar()
	if err != nil {
		return err
	}
	mode, err := lr.ParseMode(lang.Mode)
	if err != nil {
		return err
	}
	intp.Lang, intp.Grammar, intp.lexer = lang, g, lexer
	return intp.SetMode(mode)
}

// SetMode re-constructs the parser tables. If the grammar is not suitable
// for mode, the conflict is returned and lines cannot be parsed until
// another mode is chosen.
func (intp *Intp) SetMode(mode lr.Mode) error {
	intp.Mode = mode
	intp.parser = nil
	intp.lrgen = lr.NewTableGenerator(lr.Analysis(intp.Grammar))
	if err := intp.lrgen.CreateTables(mode); err != nil {
		return err
	}
	intp.parser = parser.NewParser(intp.lrgen.Tables())
	tracer().Infof("%s parser for %s has %d states", mode, intp.Grammar.Name, intp.lrgen.Tables().States)
	return nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		line := scanner.Text()
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			tracer().Errorf("Error line %d: %v", lineno, err)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval evaluates a line of input, either a command or a sentence of the
// language.
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.Execute(strings.Fields(line[1:]))
	}
	result, err := intp.Parse(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false, err
	}
	pterm.Info.Println(fmt.Sprint(result))
	return false, nil
}

// Parse parses and evaluates a sentence of the language.
func (intp *Intp) Parse(input string) (interface{}, error) {
	if intp.parser == nil {
		return nil, fmt.Errorf("no %s parser for grammar %s, choose another mode", intp.Mode, intp.Grammar.Name)
	}
	scan, err := intp.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	scan.Source = "input"
	return intp.parser.Parse(scan)
}

// --- Commands --------------------------------------------------------------

// Execute executes a command, given as a list of words.
func (intp *Intp) Execute(args []string) (quit bool, err error) {
	if len(args) == 0 {
		return false, nil
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "quit", "q":
		return true, nil
	case "help", "h":
		pterm.Info.Println(":mode [SLR|LALR1|LR1]   show or set table construction mode")
		pterm.Info.Println(":grammar                print the grammar in EBNF")
		pterm.Info.Println(":tables                 print ACTION and GOTO tables")
		pterm.Info.Println(":states                 print the states of the automaton")
		pterm.Info.Println(":dot file               write the automaton in GraphViz format")
		pterm.Info.Println(":html file              write the tables as HTML")
		pterm.Info.Println(":gen file [pkg [var]]   write the tables as Go source")
		pterm.Info.Println(":quit                   leave")
	case "mode":
		err = intp.modeCmd(args)
	case "grammar":
		var b strings.Builder
		if err = intp.Grammar.EBNF(&b); err == nil {
			pterm.Println(b.String())
		}
	case "tables":
		err = intp.tablesCmd()
	case "states":
		intp.statesCmd()
	case "dot", "html", "gen":
		err = intp.writeCmd(cmd, args)
	default:
		err = fmt.Errorf("unknown command :%s, try :help", cmd)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return false, err
}

func (intp *Intp) modeCmd(args []string) error {
	if len(args) == 0 {
		status := "ok"
		if intp.parser == nil {
			status = "not suitable"
		}
		pterm.Info.Printf("mode is %s (%s)\n", intp.Mode, status)
		return nil
	}
	mode, err := lr.ParseMode(args[0])
	if err != nil {
		return err
	}
	if err = intp.SetMode(mode); err != nil {
		return err
	}
	pterm.Info.Printf("mode is %s, %d states\n", mode, intp.lrgen.Tables().States)
	return nil
}

func (intp *Intp) tablesCmd() error {
	tables := intp.tables()
	if tables == nil {
		return fmt.Errorf("no tables for mode %s", intp.Mode)
	}
	g := intp.Grammar
	render := func(t *lr.Table, cols int) {
		header := []string{t.Name()}
		for col := 0; col < cols; col++ {
			header = append(header, g.SymbolByValue(col).Name)
		}
		data := pterm.TableData{header}
		for state := 0; state < tables.States; state++ {
			row := []string{fmt.Sprint(state)}
			for col := 0; col < cols; col++ {
				row = append(row, cellString(t, t.Value(uint(state), col)))
			}
			data = append(data, row)
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	render(tables.Action, g.TerminalCount())
	render(tables.Goto, g.SymbolCount())
	return nil
}

func cellString(t *lr.Table, v int32) string {
	switch {
	case v == t.NullValue():
		return ""
	case t.Name() == "GOTO":
		return fmt.Sprint(v)
	case v == lr.ShiftAction:
		return "s"
	case v == lr.AcceptAction:
		return "acc"
	}
	return fmt.Sprintf("r%d", v)
}

func (intp *Intp) statesCmd() {
	var ll pterm.LeveledList
	for _, state := range intp.lrgen.CFSM().States() {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: fmt.Sprintf("state %d", state.ID)})
		for _, item := range state.Items() {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: fmt.Sprint(item)})
		}
	}
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func (intp *Intp) writeCmd(cmd string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf(":%s needs a file name", cmd)
	}
	if cmd != "dot" && intp.tables() == nil {
		return fmt.Errorf("no tables for mode %s", intp.Mode)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	switch cmd {
	case "dot":
		err = intp.lrgen.CFSM().CFSM2GraphViz(f)
	case "html":
		if err = lr.ActionTableAsHTML(intp.lrgen, f); err == nil {
			err = lr.GotoTableAsHTML(intp.lrgen, f)
		}
	case "gen":
		pkg, varName := "tables", "Tables"
		if len(args) > 1 {
			pkg = args[1]
		}
		if len(args) > 2 {
			varName = args[2]
		}
		err = codegen.Generate(f, intp.tables(), pkg, varName)
	}
	if err == nil {
		pterm.Info.Printf("wrote %s\n", args[0])
	}
	return err
}

func (intp *Intp) tables() *lr.Tables {
	if intp.parser == nil {
		return nil
	}
	return intp.parser.Tables()
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
