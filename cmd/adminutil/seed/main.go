package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/sudo-init-do/khadamni/internal/config"
	"github.com/sudo-init-do/khadamni/internal/devapi"
	"github.com/sudo-init-do/khadamni/internal/marketplace"
)

var samplePosts = []marketplace.NewPost{
	{Title: "كهربائي منازل بخبرة", ServiceType: "كهربائي", Salary: "50 د.ل للساعة", City: "طرابلس", Area: "حي الأندلس", Description: "تمديدات وصيانة كهربائية للمنازل والمحلات", WorkSchedule: "مرن"},
	{Title: "سباك متاح فوراً", ServiceType: "سباك", Salary: "40 د.ل للساعة", City: "بنغازي", Description: "إصلاح تسربات وتركيب أدوات صحية", WorkSchedule: "جزئي"},
	{Title: "طباخة للمناسبات", ServiceType: "طباخة", Salary: "حسب الطلب", City: "مصراتة", Description: "أكلات ليبية تقليدية للمناسبات والعزائم", WorkSchedule: "مرن"},
	{Title: "سائق توصيل", ServiceType: "سائق", Salary: "1500 د.ل شهرياً", City: "طرابلس", Area: "جنزور", Description: "سيارة خاصة ورخصة سارية", WorkSchedule: "كامل"},
}

func main() {
	email := flag.String("email", "demo@example.com", "Email of the account to create")
	username := flag.String("username", "مستخدم تجريبي", "Username of the account")
	password := flag.String("password", "", "Password of the account")
	withPosts := flag.Bool("posts", true, "Also create sample posts for the account")
	flag.Parse()

	if *password == "" {
		log.Fatalf("usage: go run ./cmd/adminutil/seed -password secret [-email user@example.com] [-posts=false]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	store, err := devapi.Open(ctx, cfg.DevAPIDriver, cfg.DevAPIDSN)
	if err != nil {
		log.Fatalf("store error: %v", err)
	}
	defer store.Close()

	user, err := devapi.Register(ctx, store, *username, *email, *password)
	if errors.Is(err, devapi.ErrEmailTaken) {
		log.Fatalf("an account with email %s already exists", *email)
	}
	if err != nil {
		log.Fatalf("failed to create account: %v", err)
	}
	fmt.Printf("Account %s created with id %d.\n", user.Email, user.ID)

	if !*withPosts {
		return
	}
	for _, p := range samplePosts {
		p.UserID = user.ID
		if _, err := store.CreatePost(ctx, p); err != nil {
			log.Fatalf("failed to create post %q: %v", p.Title, err)
		}
	}
	fmt.Printf("%d sample posts created.\n", len(samplePosts))
}
