package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rtconsole/cases"
	"rtconsole/config"
	appmodel "rtconsole/model"
)

// Options carries everything the main view needs. Journal and Scheduler may
// be nil.
type Options struct {
	Config    *config.Config
	Keys      *config.KeyBindingsConfig
	Cases     cases.Catalog
	Dial      appmodel.DialFunc
	Journal   appmodel.Journal
	Scheduler appmodel.Scheduler
	Version   string
}

type AppView struct {
	cfg        *config.Config
	keys       *config.KeyBindingsConfig
	controller *appmodel.Controller
	prompts    *appmodel.PromptBrowser
	caseTypes  cases.Catalog
	dial       appmodel.DialFunc
	transport  appmodel.Transport
	version    string

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	// Session state mirrored for rendering
	connecting     bool
	showRaw        bool
	widgets        []Widget
	lastReply      string
	lastSuggestion string

	// Status line message, cleared by flashTickMsg
	flash      string
	flashIsErr bool

	showHelp bool

	// Example prompt browser
	showPrompts      bool
	promptIdx        int
	promptFilterMode bool
	promptFilter     textinput.Model

	// Case browser
	showCases   bool
	caseIdx     int
	caseFilter  textinput.Model
	caseResults cases.Catalog

	// Session info (markdown)
	showSessionInfo bool
	infoViewport    viewport.Model

	// Acknowledge modal for connection and send errors
	showErrorModal bool
	errorTitle     string
	errorMsg       string
}

func NewAppView(opts Options) AppView {
	keys := opts.Keys
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	controller := appmodel.NewController(appmodel.ControllerOptions{
		Session:       opts.Config.Session,
		Cases:         opts.Cases,
		Direction:     cases.Direction(opts.Config.Cases.MatchDirection),
		SuggestMode:   opts.Config.Cases.SuggestMode,
		TransportName: opts.Config.Transport.Kind,
		Scheduler:     opts.Scheduler,
		Journal:       opts.Journal,
	})

	input := textinput.New()
	input.Placeholder = "Type a message and press Enter..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	promptFilter := textinput.New()
	promptFilter.Prompt = "Filter: "
	promptFilter.CharLimit = 64

	caseFilter := textinput.New()
	caseFilter.Prompt = "Search: "
	caseFilter.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppView{
		cfg:          opts.Config,
		keys:         keys,
		controller:   controller,
		prompts:      appmodel.NewPromptBrowser(controller, opts.Config.UI.DefaultCategory),
		caseTypes:    opts.Cases,
		dial:         opts.Dial,
		version:      opts.Version,
		viewport:     viewport.New(0, 0),
		infoViewport: viewport.New(0, 0),
		input:        input,
		spinner:      sp,
		showRaw:      opts.Config.UI.ShowRaw,
		promptFilter: promptFilter,
		caseFilter:   caseFilter,
		caseResults:  opts.Cases,
	}
}

func (a AppView) Init() tea.Cmd {
	return textinput.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading rtconsole..."
	}

	// Modal layers, top first
	if a.showErrorModal {
		return RenderAcknowledgeModal(a.errorTitle, a.errorMsg, ModalTypeError, a.width, a.height)
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.showPrompts {
		return a.renderPromptBrowser(a.width, a.height)
	}
	if a.showCases {
		return a.renderCaseBrowser(a.width, a.height)
	}
	if a.showSessionInfo {
		return a.renderSessionInfo(a.width, a.height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		"",
		a.viewport.View(),
		a.renderReplyLine(),
		a.input.View(),
		a.renderStatusBar(),
	)
}

// Controller exposes the session controller, mainly for tests.
func (a AppView) Controller() *appmodel.Controller {
	return a.controller
}

// Shutdown ends the session and closes the transport. Called once the
// program has exited.
func (a *AppView) Shutdown() error {
	if a.transport == nil {
		return nil
	}
	a.controller.Deactivate()
	t := a.transport
	a.transport = nil
	if err := t.Close(); err != nil {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showPrompts = false
	a.showCases = false
	a.showSessionInfo = false
	a.promptFilterMode = false

	if a.promptFilter.Focused() {
		a.promptFilter.Blur()
	}
	if a.caseFilter.Focused() {
		a.caseFilter.Blur()
	}
	a.input.Focus()
}
