package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/ui"
)

// runCheckWithUI запускает проверку в фоне и рисует прогресс, пока она идёт.
func runCheckWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	opts.Progress = driver.ChannelSink{Ch: events}
	build := driver.Start(ctx, opts)
	go func() {
		<-build.Done()
		close(events)
	}()

	model := ui.NewProgressModel(title, opts.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// модель больше не читает канал (Ctrl+C или ошибка); вычитываем остаток,
	// чтобы воркеры не встали на полном буфере
	go func() {
		for range events {
		}
	}()
	res, err := build.Join()
	if uiErr != nil {
		return res, uiErr
	}
	return res, err
}
