package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/vptvpt/riscv-assembler/config"
	"github.com/vptvpt/riscv-assembler/driver"
	"github.com/vptvpt/riscv-assembler/languageServer"
	"github.com/vptvpt/riscv-assembler/playground"
	"github.com/vptvpt/riscv-assembler/util"
)

const usage = `usage:
  rvasm <file.s>...              assemble each file into <file>.hex
  rvasm assemble <file.s>...     same as above
  rvasm dump <file.s>            print labels, classified lines and encodings
  rvasm decode <file.hex>        disassemble a hex file
  rvasm languageServer [debug]   language server over stdin/stdout
  rvasm languageServerTCP        language server over TCP
  rvasm serve [addr]             browser playground`

func main() {
	conf, err := config.GetConfig()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	util.LoggingEnabled = conf.Debug
	util.LogEndpoint = conf.LogEndpoint

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	opts := driver.OptionsFromConfig(conf)

	switch os.Args[1] {
	case "languageServer":
		if len(os.Args) >= 3 && os.Args[2] == "debug" {
			util.LoggingEnabled = true
		}
		languageServer.ListenAndServe(conf)
	case "languageServerTCP":
		languageServer.ListenAndServeTCP(conf)
	case "serve":
		addr := conf.ListenAddr
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		if err := playground.ListenAndServe(addr, conf); err != nil {
			log.Fatalf("Playground stopped: %v", err)
		}
	case "dump":
		if len(os.Args) != 3 {
			log.Fatalln("Invalid arguments:", os.Args)
		}
		colored := term.IsTerminal(int(os.Stderr.Fd()))
		if err := driver.DumpFile(os.Args[2], opts, os.Stderr, colored); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "decode":
		if len(os.Args) != 3 {
			log.Fatalln("Invalid arguments:", os.Args)
		}
		if err := driver.DecodeFile(os.Args[2], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "assemble":
		if len(os.Args) < 3 {
			log.Fatalln("Invalid arguments:", os.Args)
		}
		os.Exit(driver.Run(os.Args[2:], opts, os.Stderr))
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		os.Exit(driver.Run(os.Args[1:], opts, os.Stderr))
	}
}
