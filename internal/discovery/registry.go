package discovery

// BrowserBinaries are executable names probed in PATH, in preference order.
var BrowserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// WellKnownPaths are checked when no browser binary is found in PATH.
var WellKnownPaths = []string{
	`/usr/bin/google-chrome`,
	`/usr/bin/chromium-browser`,
	`/usr/bin/chromium`,
	`/snap/bin/chromium`,
	`/Applications/Google Chrome.app/Contents/MacOS/Google Chrome`,
	`/Applications/Chromium.app/Contents/MacOS/Chromium`,
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// EnvChromePath overrides discovery when set.
const EnvChromePath = "CHROME_PATH"
