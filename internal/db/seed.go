package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedMajors = []string{
	"Computer Science", "Economics", "Biology", "History",
	"Mechanical Engineering", "Psychology", "Mathematics", "Design",
}

// SeedTestData resets the database and populates it with demo students,
// subscriptions and swipe history.
//
// Behavior:
//  1. Clears all tables.
//  2. Creates 20 students (10 male, 10 female) with hashed passwords and
//     full consumable counters; every 5th student is on the plus plan.
//  3. Generates swipes with ~70% likes; every 3rd inserts a reciprocal
//     like and the resulting match row.
func SeedTestData(gdb *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "swipes", "blocks", "subscriptions", "students"} {
		if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	// --- Seed students ---
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender := "male"
		if i > 10 {
			gender = "female"
		}

		student := Student{
			Name:                fmt.Sprintf("student%d", i),
			Email:               fmt.Sprintf("student%d@campus.edu", i),
			PasswordHash:        string(hash),
			Gender:              gender,
			Major:               seedMajors[r.Intn(len(seedMajors))],
			PhotoURL:            fmt.Sprintf("https://cdn.campusmatch.app/photos/%d.jpg", i),
			Active:              true,
			SuperLikesRemaining: 3,
			SuperLikesResetAt:   now.Add(24 * time.Hour),
			RewindsRemaining:    3,
			RewindsResetAt:      now.Add(24 * time.Hour),
		}
		if err := gdb.Create(&student).Error; err != nil {
			return fmt.Errorf("failed to seed student: %w", err)
		}

		plan := "free"
		swipes := 100
		boosts := 0
		if i%5 == 0 {
			plan = "plus"
			boosts = 1
		}
		sub := Subscription{
			StudentID:       student.ID,
			Plan:            plan,
			SwipesRemaining: swipes,
			SwipesResetAt:   now.Add(12 * time.Hour),
			BoostsRemaining: boosts,
			BoostsResetAt:   now.Add(30 * 24 * time.Hour),
		}
		if err := gdb.Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to seed subscription: %w", err)
		}
	}
	log.Println("Seeded 20 students.")

	// --- Seed swipes and matches ---
	var students []Student
	if err := gdb.Order("id").Find(&students).Error; err != nil {
		return err
	}

	counter := 0
	for _, actor := range students {
		for j := 0; j < 8; j++ {
			target := students[r.Intn(len(students))]
			if actor.ID == target.ID || actor.Gender == target.Gender {
				continue
			}

			// skip pairs already decided
			var exists int64
			gdb.Model(&Swipe{}).Where("swiper_id = ? AND swiped_id = ?", actor.ID, target.ID).Count(&exists)
			if exists > 0 {
				continue
			}

			liked := r.Intn(100) < 70

			if counter%3 == 0 && liked {
				// insert the reciprocal like first, then the match
				var reverse int64
				gdb.Model(&Swipe{}).Where("swiper_id = ? AND swiped_id = ?", target.ID, actor.ID).Count(&reverse)
				if reverse == 0 {
					if err := gdb.Create(&Swipe{SwiperID: target.ID, SwipedID: actor.ID, IsLike: true}).Error; err != nil {
						return fmt.Errorf("failed to seed reciprocal swipe: %w", err)
					}
					a, b := actor.ID, target.ID
					if a > b {
						a, b = b, a
					}
					var dup int64
					gdb.Model(&Match{}).Where("student_a = ? AND student_b = ?", a, b).Count(&dup)
					if dup == 0 {
						if err := gdb.Create(&Match{ID: uuid.NewString(), StudentA: a, StudentB: b, IsActive: true}).Error; err != nil {
							return fmt.Errorf("failed to seed match: %w", err)
						}
					}
				}
			}

			if err := gdb.Create(&Swipe{SwiperID: actor.ID, SwipedID: target.ID, IsLike: liked}).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			counter++
		}
	}

	return nil
}
