// Package ui provides semantic text formatting for Strongroom CLI output.
//
// Formatters apply color when the terminal supports it and fall back to
// plain-text decoration when NO_COLOR is set or output is not a terminal.
//
//	fmt.Println(ui.Tick() + " Note created: " + ui.Path.Sprint(file))
//	fmt.Println("Your key is " + ui.Secret.Sprint(key))
package ui
