// Package console implements the interactive database console: direct
// schedule maintenance plus AI generation, each mutation gated behind a
// typed confirmation code.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/eventide-app/eventide/internal/assistant"
	"github.com/eventide-app/eventide/internal/schedule"
	"github.com/eventide-app/eventide/internal/ui"
)

const menu = `
What would you like to do?
    Clear             ==> Clear the Database
    Delete            ==> Delete a Certain Event/Reminder
    Create            ==> Create a Custom Event/Reminder
    Generate Event    ==> Generate a Random Event
    Generate Schedule ==> Generate a Schedule (Clears the Original Database)
    Summarize         ==> Summarize the Current Schedule
    Quit              ==> Quit the Program
`

// Confirmation codes, typed verbatim before a destructive action runs.
const (
	confirmClear            = "DELETE THE WHOLE SCHEDULE"
	confirmDelete           = "DELETE A SPECIFIED EVENT"
	confirmCreate           = "CREATE CUSTOM EVENT"
	confirmGenerateEvent    = "GENERATE A RANDOM EVENT"
	confirmGenerateSchedule = "DELETE THE OLD SCHEDULE AND GENERATE A NEW SCHEDULE"
)

// Console drives one interactive session. All prompt state is per-Console;
// nothing is retained between sessions.
type Console struct {
	rl        *readline.Instance
	store     *schedule.Store
	assistant *assistant.Assistant
	fmt       *ui.Formatter
	out       io.Writer
}

// New creates a Console over the given store and assistant.
func New(store *schedule.Store, asst *assistant.Assistant, colored bool) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	return &Console{
		rl:        rl,
		store:     store,
		assistant: asst,
		fmt:       ui.NewFormatter(colored),
		out:       rl.Stdout(),
	}, nil
}

// Close releases the readline instance.
func (c *Console) Close() error {
	return c.rl.Close()
}

// Run loops over the action menu until Quit or EOF.
func (c *Console) Run(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, menu, "\n")
		choice, err := c.ask("Action: ")
		if err != nil {
			return nil
		}

		switch strings.ToLower(choice) {
		case "clear":
			err = c.withConfirmation(confirmClear, c.clear)
		case "delete":
			err = c.withConfirmation(confirmDelete, c.delete)
		case "create":
			err = c.withConfirmation(confirmCreate, c.create)
		case "generate event":
			err = c.withConfirmation(confirmGenerateEvent, func() error { return c.generateEvent(ctx) })
		case "generate schedule":
			err = c.withConfirmation(confirmGenerateSchedule, func() error { return c.generateSchedule(ctx) })
		case "summarize":
			err = c.summarize(ctx)
		case "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(c.out, c.fmt.Error(fmt.Sprintf("Error: %s is not a valid action", choice)))
			continue
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			fmt.Fprintln(c.out, c.fmt.Error("Error: "+err.Error()))
		}
	}
}

func (c *Console) ask(prompt string) (string, error) {
	c.rl.SetPrompt(prompt)
	line, err := c.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// withConfirmation runs action only after the exact code is typed back.
func (c *Console) withConfirmation(code string, action func() error) error {
	answer, err := c.ask(fmt.Sprintf("Type %s to confirm: ", code))
	if err != nil {
		return err
	}
	if answer != code {
		fmt.Fprintln(c.out, c.fmt.Info("Operation cancelled."))
		return nil
	}
	return action()
}

func (c *Console) printSchedule() error {
	items, err := c.store.List("")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.fmt.Schedule(items))
	return nil
}

func (c *Console) clear() error {
	n, err := c.store.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.fmt.Success(fmt.Sprintf("Successfully deleted %d events from the database.", n)))
	return nil
}

func (c *Console) delete() error {
	if err := c.printSchedule(); err != nil {
		return err
	}

	input, err := c.ask("Enter the event ID to delete: ")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not a valid integer ID", input)
	}

	item, err := c.store.Get(id)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return fmt.Errorf("no event or reminder found with ID %d", id)
		}
		return err
	}

	if err := c.store.Delete(id); err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.fmt.Success(fmt.Sprintf("Successfully deleted event/reminder: %s (ID %d)", item.Title, id)))
	return nil
}

func (c *Console) create() error {
	itemType, err := c.askOneOf("Is this an event or a reminder? (event/reminder): ",
		[]string{schedule.TypeEvent, schedule.TypeReminder})
	if err != nil {
		return err
	}

	fields := map[string]any{"type": itemType}

	if itemType == schedule.TypeEvent {
		fields["startDate"], err = c.askValid("Enter startDate (YYYY-MM-DD): ", schedule.ValidDate, "Invalid date format. Use YYYY-MM-DD for dates.")
		if err != nil {
			return err
		}
		fields["endDate"], err = c.askValid("Enter endDate (YYYY-MM-DD): ", schedule.ValidDate, "Invalid date format. Use YYYY-MM-DD for dates.")
		if err != nil {
			return err
		}
	} else {
		date, err := c.askValid("Enter date for reminder (YYYY-MM-DD): ", schedule.ValidDate, "Invalid date format. Use YYYY-MM-DD for dates.")
		if err != nil {
			return err
		}
		fields["startDate"], fields["endDate"] = date, date
	}

	if fields["title"], err = c.ask("Enter title: "); err != nil {
		return err
	}
	if fields["start"], err = c.askValid("Enter start time (HH:MM AM/PM): ", schedule.ValidClock, "Invalid time format. Use HH:MM AM/PM for times."); err != nil {
		return err
	}
	if fields["end"], err = c.askValid("Enter end time (HH:MM AM/PM): ", schedule.ValidClock, "Invalid time format. Use HH:MM AM/PM for times."); err != nil {
		return err
	}
	if fields["description"], err = c.ask("Enter description: "); err != nil {
		return err
	}

	locked, err := c.askOneOf("Is this event locked? (Y/N): ", []string{"Y", "N", "y", "n"})
	if err != nil {
		return err
	}
	fields["locked"] = strings.EqualFold(locked, "Y")

	if fields["urgency"], err = c.askOneOf(
		"Enter urgency (trivial / ongoing / attention-needed / important / critical): ",
		schedule.Urgencies); err != nil {
		return err
	}

	item, violations := schedule.ParseItem(fields, schedule.ProfileUpdate)
	if len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.Error()
		}
		return fmt.Errorf("the following inputs are invalid: %s", strings.Join(msgs, "; "))
	}

	created, err := c.store.Create(item)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.fmt.Success(fmt.Sprintf("Successfully created %s: %s (ID %d)", created.Type, created.Title, created.ID)))
	return nil
}

func (c *Console) generateEvent(ctx context.Context) error {
	fmt.Fprintln(c.out, c.fmt.Info("Generating event..."))
	item, err := c.assistant.GenerateEvent(ctx)
	if err != nil {
		return fmt.Errorf("invalid AI-generated event: %w", err)
	}
	fmt.Fprintln(c.out, c.fmt.Success(fmt.Sprintf("Successfully created event: %s (ID %d)", item.Title, item.ID)))
	return nil
}

func (c *Console) generateSchedule(ctx context.Context) error {
	fmt.Fprintln(c.out, c.fmt.Info("Generating schedule..."))
	items, err := c.assistant.GenerateSchedule(ctx)
	if err != nil {
		return fmt.Errorf("invalid AI-generated schedule: %w", err)
	}
	fmt.Fprintln(c.out, c.fmt.Success(fmt.Sprintf("Successfully created schedule with %d items", len(items))))
	return c.printSchedule()
}

func (c *Console) summarize(ctx context.Context) error {
	items, err := c.store.List("")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, c.fmt.Info("Summarizing schedule..."))
	summary, err := c.assistant.Summarize(ctx, items)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.fmt.Summary(summary))
	return nil
}

func (c *Console) askOneOf(prompt string, options []string) (string, error) {
	for {
		answer, err := c.ask(prompt)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			if answer == opt {
				return answer, nil
			}
		}
		fmt.Fprintln(c.out, c.fmt.Error("Invalid input."))
	}
}

func (c *Console) askValid(prompt string, valid func(string) bool, errMsg string) (string, error) {
	for {
		answer, err := c.ask(prompt)
		if err != nil {
			return "", err
		}
		if valid(answer) {
			return answer, nil
		}
		fmt.Fprintln(c.out, c.fmt.Error(errMsg))
	}
}
