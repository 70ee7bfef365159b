// Package browser implements page.Surface on a real browser through
// playwright-go. One Launcher owns a Playwright driver and a browser process
// for the whole run; every session gets its own browser context, so cookies,
// storage and page state never leak between test cases.
package browser
