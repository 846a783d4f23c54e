package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	hashCmd := flag.NewFlagSet("hash-password", flag.ExitOnError)
	password := hashCmd.String("password", "", "password to hash; read from stdin when empty")
	cost := hashCmd.Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "hash-password":
		_ = hashCmd.Parse(os.Args[2:])

		pw := *password
		if pw == "" {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				fmt.Fprintln(os.Stderr, "failed to read password from stdin:", err)
				os.Exit(1)
			}
			pw = strings.TrimRight(line, "\r\n")
		}

		hash, err := hashPassword(pw, *cost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		// вывод кладётся в owner.password_hash
		fmt.Println(hash)
	default:
		usage()
	}
}

func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli hash-password [-password <pw>] [-cost <n>]")
	os.Exit(1)
}
