package shell

import "fmt"

// login <user_id>
func login(shell *Shell, args []string) {

	if len(args) != 2 {
		fmt.Fprintln(shell, "Usage: login <user_id>")
		return
	}

	shell.server.Session().Login(args[1])
	fmt.Fprintf(shell, "Logged in as %v\n", args[1])
}

// logout
func logout(shell *Shell, args []string) {
	shell.server.Session().Logout()
	fmt.Fprintln(shell, "Logged out")
}

// whoami
func whoami(shell *Shell, args []string) {
	if userID, ok := shell.server.Session().CurrentUserID(); ok {
		fmt.Fprintln(shell, userID)
	} else {
		fmt.Fprintln(shell, "Not logged in")
	}
}
