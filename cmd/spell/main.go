package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spellbridge/spellbridge"
	"github.com/spellbridge/spellbridge/affinity"
	"github.com/spellbridge/spellbridge/provider"
)

func main() {
	var (
		lang        = flag.String("lang", "en_US", "Dictionary language tag (xx_YY)")
		word        = flag.String("word", "", "Word to check")
		suggest     = flag.Bool("suggest", false, "Print suggestions for a misspelled word")
		add         = flag.String("add", "", "Add word to the personal dictionary first")
		list        = flag.Bool("list", false, "List available dictionaries and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(*lang); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *word == "" && !*list {
		fmt.Fprintln(os.Stderr, "Usage: spell -word <word> [-lang xx_YY] [-suggest]")
		fmt.Fprintln(os.Stderr, "       spell -list")
		fmt.Fprintln(os.Stderr, "       spell -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*lang, *word, *add, *suggest, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(lang, word, add string, withSuggestions, listOnly bool) error {
	reg := affinity.NewRegistry()

	p, err := provider.New(reg)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	defer p.Dispose()

	fmt.Printf("Provider: %s (%s)\n", p.Describe(), p.Identify())

	if listOnly {
		langs, err := p.ListDicts()
		if err != nil {
			return fmt.Errorf("list dictionaries: %w", err)
		}
		defer p.FreeStringList(langs)

		fmt.Printf("\nAvailable dictionaries:\n")
		for _, tag := range langs.Strings() {
			fmt.Printf("  %s\n", tag)
		}
		return nil
	}

	dict, err := p.RequestDict(lang)
	if err != nil {
		return fmt.Errorf("request dictionary %s: %w", lang, err)
	}
	defer p.DisposeDict(dict)

	fmt.Printf("Dictionary: %s\n", dict.Tag())

	if add != "" {
		dict.AddToPersonal(add)
		fmt.Printf("Added %q to the personal dictionary\n", add)
	}

	verdict, err := dict.Check(word)
	if err != nil {
		return fmt.Errorf("check %q: %w", word, err)
	}
	fmt.Printf("\n%s: %s\n", word, verdict)

	if verdict == spellbridge.Misspelled && withSuggestions {
		suggs, err := dict.Suggest(word)
		if err != nil {
			return fmt.Errorf("suggest for %q: %w", word, err)
		}
		if suggs == nil || suggs.Len() == 0 {
			fmt.Println("No suggestions.")
			return nil
		}
		defer p.FreeStringList(suggs)

		fmt.Printf("Suggestions:\n")
		for _, s := range suggs.Strings() {
			fmt.Printf("  %s\n", s)
		}
	}

	return nil
}
