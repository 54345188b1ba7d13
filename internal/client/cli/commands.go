package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) User(ctx context.Context, name string) error {

	user, err := a.service.CreateUser(ctx, name)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Created user", user.DisplayName, "("+user.ID+")")
	return nil
}

func (a *App) Create(ctx context.Context) error {

	session, err := a.service.CreateSession(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Session created. Share this code with your partner:", session.ShareCode)
	return nil
}

func (a *App) Join(ctx context.Context, code string) error {

	session, err := a.service.JoinSession(ctx, code)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Joined session", session.ID)
	return nil
}

func (a *App) Send(ctx context.Context, path string) error {

	model, err := a.service.SendModel(ctx, path)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Sent %s (%d bytes) as model %s", path, model.FileSizeBytes, model.ID))
	return nil
}

func (a *App) Poll(ctx context.Context) error {

	before := a.service.State().Cursor

	st, err := a.service.PollOnce(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if st.Cursor != before && st.LatestModel != nil {
		printlnFn("New hand model received:", st.LatestModel.ID)
	} else {
		printlnFn("Nothing new.")
	}
	return nil
}

func (a *App) Watch(ctx context.Context) error {
	a.watcher.Start(ctx)
	printlnFn("Watching for new models...")
	return nil
}

func (a *App) StopWatch(ctx context.Context) error {
	a.watcher.Stop()
	printlnFn("Stopped watching.")
	return nil
}

func (a *App) Latest(ctx context.Context) error {

	model, err := a.service.Latest(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(fmt.Sprintf("Latest model %s (%d bytes, %s)", model.ID, model.FileSizeBytes, model.ContentType))
	if model.DownloadURL != "" {
		printlnFn("Download:", model.DownloadURL)
	}
	return nil
}

func (a *App) Confirm(ctx context.Context) error {

	model, err := a.service.Confirm(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Confirmed delivery of model", model.ID)
	return nil
}

func (a *App) Status(ctx context.Context) error {

	st := a.service.State()

	if st.User == nil {
		printlnFn("No identity yet. Use: user <name>")
		return nil
	}
	printlnFn("User:", st.User.DisplayName, "("+st.User.ID+")")

	if st.Session == nil {
		printlnFn("No active session.")
	} else {
		pairState := "waiting for partner"
		if st.Session.Paired() {
			pairState = "paired"
		}
		printlnFn(fmt.Sprintf("Session %s [%s] %s", st.Session.ID, st.Session.ShareCode, pairState))
	}

	if st.LatestModel != nil {
		printlnFn("Latest model:", st.LatestModel.ID)
	}
	if st.LastError != nil {
		printlnFn(fmt.Sprintf("Last error (%s): %v", st.FailedOp, st.LastError))
	}
	return nil
}
