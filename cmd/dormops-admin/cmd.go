package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"dormops-backend/internal/importer"
	"dormops-backend/internal/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store    store.Store
	importer *importer.Importer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  import-occupants -dorm DORM_ID -file FILE.xlsx  - upsert the occupant roster from a workbook")
	fmt.Println("  import-finance -dorm DORM_ID -file FILE.xlsx    - import ledger entries from a workbook")
	fmt.Println("  reset-password -email EMAIL                     - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importOccupantsCmd := flag.NewFlagSet("import-occupants", flag.ExitOnError)
	occupantsDorm := importOccupantsCmd.Int64("dorm", 0, "The dorm ID to import into.")
	occupantsFile := importOccupantsCmd.String("file", "", "Path to the XLSX workbook.")

	importFinanceCmd := flag.NewFlagSet("import-finance", flag.ExitOnError)
	financeDorm := importFinanceCmd.Int64("dorm", 0, "The dorm ID to import into.")
	financeFile := importFinanceCmd.String("file", "", "Path to the XLSX workbook.")

	resetPasswordCmd := flag.NewFlagSet("reset-password", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "import-occupants":
		if err := importOccupantsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *occupantsDorm == 0 || *occupantsFile == "" {
			importOccupantsCmd.Usage()
			return errHelp
		}
		res, err := cli.importer.ImportOccupants(context.Background(), *occupantsDorm, *occupantsFile)
		if err != nil {
			return err
		}
		fmt.Printf("occupants: %d imported, %d skipped\n", res.Inserted, res.Skipped)
		return nil
	case "import-finance":
		if err := importFinanceCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *financeDorm == 0 || *financeFile == "" {
			importFinanceCmd.Usage()
			return errHelp
		}
		res, err := cli.importer.ImportFinance(context.Background(), *financeDorm, 0, *financeFile)
		if err != nil {
			return err
		}
		fmt.Printf("finance entries: %d imported, %d skipped\n", res.Inserted, res.Skipped)
		return nil
	case "reset-password":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
