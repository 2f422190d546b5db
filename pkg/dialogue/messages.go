package dialogue

// French assistant copy per step. Menu steps answer with fixed copy and
// buttons; only free questions inside a step go through retrieval and
// generation.

const (
	MsgOutOfScope = "Je suis spécialisé sur l'offre annonceurs de Tunisie Numérique " +
		"et ses solutions publicitaires. Pour toute autre demande, notre équipe peut " +
		"vous aider via notre formulaire de contact."

	MsgFallback = "Je suis désolé, je n'ai pas pu traiter votre demande pour le " +
		"moment. Vous pouvez réessayer ou demander à être rappelé par notre équipe."

	MsgNoKnowledge = "Je ne dispose pas de cette information dans ma base de " +
		"connaissances et je préfère ne rien inventer. Souhaitez-vous être rappelé " +
		"par un membre de notre équipe commerciale ?"

	MsgCallbackIntro = "Très bien, un membre de notre équipe vous rappellera. " +
		"Il me faut juste quelques informations."

	msgWelcome = "Bonjour et bienvenue ! Je suis l'assistant annonceurs de " +
		"Tunisie Numérique. Je peux vous présenter notre audience, nos solutions " +
		"publicitaires et vous aider à définir votre campagne."

	msgMainMenu = "Que souhaitez-vous découvrir ?"

	msgAudience = "Tunisie Numérique touche chaque mois une large audience en " +
		"Tunisie et dans la diaspora. Posez-moi une question précise sur nos " +
		"chiffres (visites, profils, répartition) et je vous répondrai à partir de " +
		"nos données officielles."

	msgSolutionsMenu = "Voici nos familles de solutions publicitaires. " +
		"Laquelle vous intéresse ?"

	msgSolutionsDisplay = "Le display classique : bannières et habillages sur " +
		"l'ensemble du site, en rotation ou en exclusivité. Posez-moi vos questions " +
		"sur les formats et les emplacements."

	msgSolutionsContent = "Le contenu sponsorisé : articles, communiqués et " +
		"dossiers rédigés avec notre rédaction, relayés sur nos réseaux. " +
		"Demandez-moi des exemples ou des formats."

	msgSolutionsVideo = "La vidéo : formats natifs, reportages de marque et " +
		"diffusion sur nos canaux sociaux. Posez-moi vos questions."

	msgSolutionsAudio = "L'audio : podcasts sponsorisés et spots dans nos " +
		"contenus audio. Posez-moi vos questions."

	msgSolutionsInnovation = "Le Pack Innovation : nos formats les plus " +
		"engageants (interactifs, natifs, événementiels) pour les marques qui " +
		"veulent sortir du lot. Demandez-moi le détail."

	msgSolutionsMag = "TN Le Mag : notre magazine premium, un environnement " +
		"éditorial haut de gamme pour votre marque. Posez-moi vos questions."

	msgBudgetClientType = "Parlons budget. Pour vous orienter au mieux : " +
		"qui êtes-vous ?"

	msgBudgetObjective = "Quel est l'objectif principal de votre campagne ?"

	msgBudgetAmount = "Quelle enveloppe budgétaire envisagez-vous ?"

	msgBudgetUnknown = "Pas de souci. Dans ce cas, le plus simple est un échange " +
		"avec notre équipe pour construire une proposition sur mesure."

	msgImmoneuf = "Immoneuf est notre plateforme dédiée à l'immobilier neuf : " +
		"mise en avant de vos programmes auprès d'acheteurs qualifiés. " +
		"Laissez-nous vos coordonnées et notre équipe vous présentera le dispositif."

	msgPremium = "Notre offre premium combine visibilité exclusive, contenus " +
		"dédiés et accompagnement prioritaire. Laissez-nous vos coordonnées pour " +
		"recevoir la présentation complète."

	msgPartnership = "Nous construisons des partenariats durables avec les " +
		"marques et institutions. Laissez-nous vos coordonnées et nous reviendrons " +
		"vers vous avec une proposition."

	msgLeadCaptured = "Merci ! Votre demande a bien été enregistrée. " +
		"Notre équipe commerciale vous contactera très rapidement."

	promptCompany = "Pour finaliser votre demande, quel est le nom de votre " +
		"société ?"

	promptContact = "Merci. Un email ou un numéro de téléphone pour vous " +
		"recontacter ?"
)

// stepMessages is the static copy shown on entering each step.
var stepMessages = map[Step]string{
	StepWelcome:             msgWelcome,
	StepMainMenu:            msgMainMenu,
	StepAudience:            msgAudience,
	StepSolutionsMenu:       msgSolutionsMenu,
	StepSolutionsDisplay:    msgSolutionsDisplay,
	StepSolutionsContent:    msgSolutionsContent,
	StepSolutionsVideo:      msgSolutionsVideo,
	StepSolutionsAudio:      msgSolutionsAudio,
	StepSolutionsInnovation: msgSolutionsInnovation,
	StepSolutionsMag:        msgSolutionsMag,
	StepBudgetClientType:    msgBudgetClientType,
	StepBudgetObjective:     msgBudgetObjective,
	StepBudgetAmount:        msgBudgetAmount,
	StepImmoneuf:            msgImmoneuf,
	StepPremium:             msgPremium,
	StepPartnership:         msgPartnership,
	StepLeadForm:            promptCompany,
	StepLeadCaptured:        msgLeadCaptured,
	StepOutOfScope:          MsgOutOfScope,
}

// MessageFor returns the static copy of a step.
func MessageFor(step Step) string {
	return stepMessages[step]
}
