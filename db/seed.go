package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/types"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var seedCategories = []types.InsertForumCategory{
	{Name: "Tumore al seno", Slug: "breast-cancer", Description: strPtr("Discussioni riguardanti il tumore al seno")},
	{Name: "Tumore al polmone", Slug: "lung-cancer", Description: strPtr("Discussioni riguardanti il tumore al polmone")},
	{Name: "Leucemia", Slug: "leukemia", Description: strPtr("Discussioni riguardanti la leucemia")},
	{Name: "Terapie e trattamenti", Slug: "therapies-treatments", Description: strPtr("Discussioni su diverse terapie e trattamenti")},
	{Name: "Supporto emotivo", Slug: "emotional-support", Description: strPtr("Supporto emotivo per pazienti e familiari")},
}

type seedPharmacy struct {
	types.InsertPharmacy
	ReviewCount int
}

var seedPharmacies = []seedPharmacy{
	{
		InsertPharmacy: types.InsertPharmacy{
			Name:            "Farmacia San Paolo",
			Address:         "Via Roma 123",
			City:            "Milano",
			Region:          "Lombardia",
			Phone:           strPtr("02 1234567"),
			Specializations: []string{"preparazioni-galeniche", "nutrizione-oncologica"},
			Rating:          intPtr(4),
			ImageURL:        strPtr("https://images.unsplash.com/photo-1587854692152-cbe660dbde88?auto=format&fit=crop&w=400&h=200&q=80"),
			Latitude:        strPtr("45.4642"),
			Longitude:       strPtr("9.1900"),
		},
		ReviewCount: 42,
	},
	{
		InsertPharmacy: types.InsertPharmacy{
			Name:            "Farmacia Centrale",
			Address:         "Corso Italia 45",
			City:            "Roma",
			Region:          "Lazio",
			Phone:           strPtr("06 9876543"),
			Specializations: []string{"supporto-post-chemioterapia", "presidi-medico-chirurgici"},
			Rating:          intPtr(5),
			ImageURL:        strPtr("https://images.unsplash.com/photo-1586773860418-d37222d8fce3?auto=format&fit=crop&w=400&h=200&q=80"),
			Latitude:        strPtr("41.9028"),
			Longitude:       strPtr("12.4964"),
		},
		ReviewCount: 35,
	},
	{
		InsertPharmacy: types.InsertPharmacy{
			Name:            "Farmacia Moderna",
			Address:         "Via Napoli 78",
			City:            "Napoli",
			Region:          "Campania",
			Phone:           strPtr("081 5557777"),
			Specializations: []string{"preparazioni-galeniche", "nutrizione-oncologica", "presidi-medico-chirurgici"},
			Rating:          intPtr(3),
			ImageURL:        strPtr("https://images.unsplash.com/photo-1580281657702-257584239a55?auto=format&fit=crop&w=400&h=200&q=80"),
			Latitude:        strPtr("40.8518"),
			Longitude:       strPtr("14.2681"),
		},
		ReviewCount: 28,
	},
}

var seedTestimonials = []types.InsertTestimonial{
	{
		Name:     "Luisa Bianchi",
		Role:     "Paziente",
		Location: "Milano",
		Content:  "Grazie a Onconet24 ho potuto ricevere un secondo parere che ha cambiato il mio percorso terapeutico. La piattaforma mi ha permesso di contattare facilmente specialisti che altrimenti non avrei mai potuto raggiungere.",
		Rating:   5,
		ImageURL: strPtr("https://images.unsplash.com/photo-1544005313-94ddf0286df2?auto=format&fit=crop&w=50&h=50&q=80"),
	},
	{
		Name:     "Dr. Andrea Conti",
		Role:     "Oncologo",
		Location: "Torino",
		Content:  "Come oncologo, posso affermare che Onconet24 ha rivoluzionato il modo in cui interagisco con i pazienti. La piattaforma mi permette di offrire consulenze anche a persone che vivono lontano, espandendo notevolmente la mia capacità di aiutare.",
		Rating:   5,
		ImageURL: strPtr("https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?auto=format&fit=crop&w=50&h=50&q=80"),
	},
	{
		Name:     "Giovanni Russo",
		Role:     "Familiare di paziente",
		Location: "Firenze",
		Content:  "Quando mio padre ha ricevuto la diagnosi, ci sentivamo persi. Il forum di Onconet24 ci ha messo in contatto con altre famiglie nella nostra situazione e con medici che ci hanno guidato attraverso tutto il percorso di cura.",
		Rating:   4,
		ImageURL: strPtr("https://images.unsplash.com/photo-1566616213894-2d4e1baee5d8?auto=format&fit=crop&w=50&h=50&q=80"),
	},
}

// SeedDatabase inserts the reference categories, pharmacies and testimonials.
// It does nothing when forum categories already exist.
func SeedDatabase(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.ForumCategory{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		log.Info().Msg("Database already seeded")
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make([]models.ForumCategory, 0, len(seedCategories))
		for _, c := range seedCategories {
			categories = append(categories, c.Model())
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}

		pharmacies := make([]models.Pharmacy, 0, len(seedPharmacies))
		for _, p := range seedPharmacies {
			pharmacy := p.Model()
			pharmacy.ReviewCount = p.ReviewCount
			pharmacies = append(pharmacies, pharmacy)
		}
		if err := tx.Create(&pharmacies).Error; err != nil {
			return fmt.Errorf("seed pharmacies: %w", err)
		}

		testimonials := make([]models.Testimonial, 0, len(seedTestimonials))
		for _, t := range seedTestimonials {
			testimonials = append(testimonials, t.Model())
		}
		if err := tx.Create(&testimonials).Error; err != nil {
			return fmt.Errorf("seed testimonials: %w", err)
		}

		log.Info().
			Int("categories", len(categories)).
			Int("pharmacies", len(pharmacies)).
			Int("testimonials", len(testimonials)).
			Msg("Database seeded")
		return nil
	})
}
