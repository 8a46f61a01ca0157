// Package main is the main entrypoint to the subty application
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/tanema/subty/src/conf"
	"github.com/tanema/subty/src/parse"
	"github.com/tanema/subty/src/runner"
)

var (
	r           *runner.Runner
	parseOnly   bool
	showVersion bool
	executeStat string
	interactive bool
	traceOn     bool
	checkCaps   bool
	guardCycles bool
)

func init() {
	flag.BoolVar(&parseOnly, "p", false, "parse only, print declarations and judgments")
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.StringVar(&executeStat, "e", "", "evaluate string 'stat'")
	flag.BoolVar(&interactive, "i", false, "enter interactive mode after running a script")
	flag.BoolVar(&traceOn, "t", false, "trace every decision of the checker")
	flag.BoolVar(&checkCaps, "caps", conf.CHECKCAPS, "check reference capabilities")
	flag.BoolVar(&guardCycles, "guard", conf.GUARDCYCLES, "guard against cyclic provided traits")
}

func main() {
	if os.Getenv("SUBTY_PROFILE") != "" {
		defer runProfiling(os.Getenv("SUBTY_PROFILE"))()
	}
	flag.Usage = printUsage
	flag.Parse()

	r = runner.New(os.Stdout, runner.WithConfig(parse.Config{
		Capabilities: checkCaps,
		GuardCycles:  guardCycles,
		Trace:        traceOn,
	}))

	args := flag.Args()
	if showVersion {
		printVersion()
	}
	if piped(os.Stdin) {
		data, err := io.ReadAll(os.Stdin)
		checkErr(err)
		runSrc("<stdin>", strings.NewReader(string(data)))
	} else if executeStat != "" {
		runSrc("<string>", strings.NewReader(executeStat))
	} else if len(args) == 0 && !showVersion {
		runREPL()
	} else if len(args) > 0 {
		info, err := os.Stat(args[0])
		checkErr(err)
		if info.IsDir() {
			checkErr(fmt.Errorf("%v is a directory", args[0]))
		}
		src, err := os.Open(args[0])
		checkErr(err)
		defer func() { _ = src.Close() }()
		runSrc(args[0], src)
	} else if !showVersion {
		printUsage()
	}
}

// piped reports if f is a pipe or file rather than a terminal. A file that
// cannot be inspected counts as a terminal.
func piped(f *os.File) bool {
	stat, err := f.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: subty [options] [script]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runSrc(path string, src io.Reader) {
	script, err := r.Parse(path, src)
	checkErr(err)
	if parseOnly {
		fmt.Fprint(os.Stdout, script.String())
	} else {
		_, err = r.Eval(script)
		checkErr(err)
	}
	if interactive {
		runREPL()
	}
}

func runREPL() {
	printVersion()
	fmt.Fprint(os.Stderr, "Press ctrl-c to quit or clear current buffer.\n")
	checkErr(r.REPL())
}

func runProfiling(filename string) func() {
	f, err := os.Create(filename)
	checkErr(err)
	checkErr(pprof.StartCPUProfile(f))
	return pprof.StopCPUProfile
}
