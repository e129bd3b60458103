// Command blogctl is a command line client for the blog API.
//
// The token for authenticated commands comes from -token or BLOG_TOKEN.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blog/internal/client"
)

const usageText = `usage: blogctl [-api URL] [-token TOKEN] <command> [args]

commands:
  register <username> <email> <password>
  login <email> <password>
  logout
  me
  posts [-limit N] [-offset N]
  post <id>
  create -title T -content C [-image URL]
  update <id> [-title T] [-content C] [-image URL]
  delete <id> -yes
  comments <postId>
  comment <postId> <text>
  uncomment <commentId> -yes
  likes <postId>
  like <postId>
  watch
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "blogctl:", err)
		os.Exit(1)
	}
}

type cli struct {
	api   *client.Client
	token string
	out   io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("blogctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", envOr("BLOG_API", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("BLOG_TOKEN"), "bearer token")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return errors.New(usageText)
	}
	if fs.NArg() == 0 {
		return errors.New(usageText)
	}

	api, err := client.New(*apiURL)
	if err != nil {
		return err
	}
	c := &cli{api: api, token: *token, out: out}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "watch" {
		return c.watch(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	switch cmd {
	case "register":
		if len(rest) != 3 {
			return usage("register <username> <email> <password>")
		}
		return c.print(c.api.Register(ctx, rest[0], rest[1], rest[2]))
	case "login":
		if len(rest) != 2 {
			return usage("login <email> <password>")
		}
		return c.print(c.api.Login(ctx, rest[0], rest[1]))
	case "logout":
		return c.done(c.api.Logout(ctx, c.token), "Logged out")
	case "me":
		return c.print(c.api.Me(ctx, c.token))
	case "posts":
		sub := flag.NewFlagSet("posts", flag.ContinueOnError)
		sub.SetOutput(io.Discard)
		limit := sub.Int("limit", 0, "page size")
		offset := sub.Int("offset", 0, "posts to skip")
		if err := sub.Parse(rest); err != nil {
			return usage("posts [-limit N] [-offset N]")
		}
		return c.print(c.api.ListPosts(ctx, *limit, *offset))
	case "post":
		if len(rest) != 1 {
			return usage("post <id>")
		}
		return c.print(c.api.GetPost(ctx, rest[0]))
	case "create":
		return c.create(ctx, rest)
	case "update":
		return c.update(ctx, rest)
	case "delete":
		id, err := confirmed("delete <id> -yes", rest)
		if err != nil {
			return err
		}
		return c.done(c.api.DeletePost(ctx, c.token, id), "Post deleted")
	case "comments":
		if len(rest) != 1 {
			return usage("comments <postId>")
		}
		return c.print(c.api.ListComments(ctx, rest[0]))
	case "comment":
		if len(rest) < 2 {
			return usage("comment <postId> <text>")
		}
		return c.print(c.api.AddComment(ctx, c.token, rest[0], strings.Join(rest[1:], " ")))
	case "uncomment":
		id, err := confirmed("uncomment <commentId> -yes", rest)
		if err != nil {
			return err
		}
		return c.done(c.api.DeleteComment(ctx, c.token, id), "Comment deleted")
	case "likes":
		if len(rest) != 1 {
			return usage("likes <postId>")
		}
		return c.print(c.api.ListLikes(ctx, rest[0]))
	case "like":
		if len(rest) != 1 {
			return usage("like <postId>")
		}
		return c.print(c.api.ToggleLike(ctx, c.token, rest[0]))
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usageText)
	}
}

func (c *cli) create(ctx context.Context, args []string) error {
	sub := flag.NewFlagSet("create", flag.ContinueOnError)
	sub.SetOutput(io.Discard)
	title := sub.String("title", "", "post title")
	content := sub.String("content", "", "post body")
	image := sub.String("image", "", "image URL")
	if err := sub.Parse(args); err != nil {
		return usage("create -title T -content C [-image URL]")
	}
	return c.print(c.api.CreatePost(ctx, c.token, *title, *content, *image))
}

func (c *cli) update(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("update <id> [-title T] [-content C] [-image URL]")
	}
	id := args[0]

	sub := flag.NewFlagSet("update", flag.ContinueOnError)
	sub.SetOutput(io.Discard)
	title := sub.String("title", "", "new title")
	content := sub.String("content", "", "new body")
	image := sub.String("image", "", "new image URL; empty clears it")
	if err := sub.Parse(args[1:]); err != nil {
		return usage("update <id> [-title T] [-content C] [-image URL]")
	}

	// Only flags given on the command line are sent.
	var fields client.PostUpdate
	sub.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			fields.Title = title
		case "content":
			fields.Content = content
		case "image":
			fields.ImageURL = image
		}
	})
	return c.print(c.api.UpdatePost(ctx, c.token, id, fields))
}

func (c *cli) watch(ctx context.Context) error {
	fmt.Fprintln(c.out, "watching feed, ctrl-c to stop")
	return c.api.Watch(ctx, c.token, func(e client.FeedEvent) {
		fmt.Fprintf(c.out, "%s %s\n", e.Type, e.Payload)
	})
}

// confirmed requires an explicit -yes before destructive commands.
func confirmed(form string, args []string) (string, error) {
	var id string
	yes := false
	for _, a := range args {
		switch a {
		case "-yes", "--yes":
			yes = true
		default:
			if id != "" {
				return "", usage(form)
			}
			id = a
		}
	}
	if id == "" {
		return "", usage(form)
	}
	if !yes {
		return "", fmt.Errorf("refusing to delete %s without -yes", id)
	}
	return id, nil
}

func (c *cli) print(v any, err error) error {
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) done(err error, msg string) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, msg)
	return err
}

func usage(form string) error {
	return fmt.Errorf("usage: blogctl %s", form)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
