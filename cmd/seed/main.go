package main

import (
	"log"
	"os"

	"advertiser-chatbot-be/internal/model"
	"advertiser-chatbot-be/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds the knowledge base with the advertiser offer sheets. Documents are
// created in "pending" status; run the REST server (or trigger a reindex)
// to embed them.
func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	documents := []model.KnowledgeDocument{
		{
			Title:  "Audience Tunisie Numérique",
			Source: "mediakit-2026",
			Status: "pending",
			Content: "Tunisie Numérique est le premier média d'information en Tunisie. " +
				"Le site enregistre plus de 8 millions de visites par mois et touche " +
				"une audience majoritairement tunisienne, complétée par une forte " +
				"diaspora en France, au Canada et dans le Golfe. L'audience se répartit " +
				"entre mobile (78%) et desktop (22%). Les lecteurs sont à 58% des hommes " +
				"et 42% des femmes, avec une tranche dominante de 25 à 44 ans.",
		},
		{
			Title:  "Solutions display",
			Source: "mediakit-2026",
			Status: "pending",
			Content: "Le display classique comprend des bannières standard (leaderboard " +
				"728x90, pavé 300x250, habillage de page) diffusées en rotation ou en " +
				"exclusivité. Les campagnes display démarrent à partir de 800 TND pour " +
				"une semaine de rotation. L'habillage exclusif de la page d'accueil est " +
				"facturé 2 500 TND par semaine.",
		},
		{
			Title:  "Contenu sponsorisé et formats éditoriaux",
			Source: "mediakit-2026",
			Status: "pending",
			Content: "L'article sponsorisé est rédigé avec notre rédaction et publié " +
				"dans la section partenaire, avec relais sur les réseaux sociaux de " +
				"Tunisie Numérique. Tarif indicatif : 1 200 TND par article, incluant " +
				"une mise en avant de 48 heures en page d'accueil. Le dossier sponsorisé " +
				"multi-articles et le communiqué de presse sont également disponibles.",
		},
		{
			Title:  "Immoneuf",
			Source: "offre-immoneuf",
			Status: "pending",
			Content: "Immoneuf est la plateforme de Tunisie Numérique dédiée à " +
				"l'immobilier neuf. Les promoteurs y présentent leurs programmes avec " +
				"fiches détaillées, photos et formulaires de contact qualifiés. " +
				"L'abonnement annuel inclut la mise en avant des programmes dans la " +
				"section immobilier du site principal.",
		},
		{
			Title:  "Offre premium et Pack Innovation",
			Source: "offre-premium",
			Status: "pending",
			Content: "L'offre premium combine un habillage exclusif, des contenus " +
				"éditoriaux dédiés et un accompagnement prioritaire par l'équipe " +
				"commerciale. Le Pack Innovation regroupe les formats les plus " +
				"engageants : formats interactifs, native advertising, opérations " +
				"spéciales événementielles et brand content vidéo. TN Le Mag, le " +
				"magazine premium, offre un environnement éditorial haut de gamme.",
		},
	}

	created := 0
	for _, doc := range documents {
		var count int64
		db.Model(&model.KnowledgeDocument{}).Where("title = ?", doc.Title).Count(&count)
		if count > 0 {
			log.Printf("Skip: document %q already exists", doc.Title)
			continue
		}
		if err := db.Create(&doc).Error; err != nil {
			log.Printf("Warn: failed to create %q: %v", doc.Title, err)
			continue
		}
		created++
	}

	log.Printf("✅ Success: seeded %d knowledge documents (status=pending)", created)
}
