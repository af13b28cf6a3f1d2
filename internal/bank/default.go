package bank

import "animation-quiz/internal/domain"

// DefaultID identifies the built-in bank.
const DefaultID = "animation"

// Default returns the built-in bank of animation technique questions.
func Default() domain.Bank {
	questions := make([]domain.Question, len(animationQuestions))
	copy(questions, animationQuestions)
	return domain.Bank{
		ID:        DefaultID,
		Title:     "Animation techniques",
		Questions: questions,
	}
}

var animationQuestions = []domain.Question{
	{
		ID:     1,
		Prompt: "Traditional animation is characterized by:",
		Options: []string{
			"Live footage with drawings on top",
			"Drawings made frame by frame by hand",
			"Rendered 3D models",
			"Real-time electronic distortions",
		},
		CorrectIndex: 1,
	},
	{
		ID:     2,
		Prompt: "The technique that uses people moving in small steps between photos is called:",
		Options: []string{
			"Scanimate",
			"Stop motion",
			"Pixilation",
			"Animation on film",
		},
		CorrectIndex: 2,
	},
	{
		ID:     3,
		Prompt: "Animation on film consists of:",
		Options: []string{
			"Building 3D models and animating them on a computer",
			"Drawing directly on photographic film",
			"Photographing objects frame by frame",
			"Using sand on a lit table",
		},
		CorrectIndex: 1,
	},
	{
		ID:     4,
		Prompt: "Sand animation is usually made:",
		Options: []string{
			"Inside digital software",
			"With sand on a lit surface, frame by frame",
			"With 3D sculptures",
			"By moving real people",
		},
		CorrectIndex: 1,
	},
	{
		ID:     5,
		Prompt: "Scanimate was mainly used for:",
		Options: []string{
			"Modern 3D animated features",
			"Rotoscoped music videos",
			"Analog TV idents and graphics",
			"Stop motion films",
		},
		CorrectIndex: 2,
	},
	{
		ID:     6,
		Prompt: "Rotoscoping is a technique that:",
		Options: []string{
			"Uses sand to create cartoons",
			"Draws over real filmed footage",
			"Models objects on a computer",
			"Paints film during projection",
		},
		CorrectIndex: 1,
	},
	{
		ID:     7,
		Prompt: "Stop motion uses:",
		Options: []string{
			"Computers to render 3D scenes",
			"Continuous real-time footage",
			"Photographs of objects moved in small steps",
			"Drawings made on paper",
		},
		CorrectIndex: 2,
	},
	{
		ID:     8,
		Prompt: "A well-known stop motion example is:",
		Options: []string{
			"The Lion King (1994)",
			"Coraline",
			"Toy Story",
			"A Scanner Darkly",
		},
		CorrectIndex: 1,
	},
	{
		ID:     9,
		Prompt: "How many photos were taken for the project's stop motion example?",
		Options: []string{
			"50",
			"113",
			"240",
			"300",
		},
		CorrectIndex: 1,
	},
	{
		ID:     10,
		Prompt: "What was the final length of the project's animation?",
		Options: []string{
			"5 seconds",
			"11 seconds",
			"30 seconds",
			"1 minute",
		},
		CorrectIndex: 1,
	},
	{
		ID:     11,
		Prompt: "The main reason stop motion is slow to produce is:",
		Options: []string{
			"Lack of sound effects",
			"Each frame has to be photographed individually",
			"Complex software",
			"Difficulty painting digital sets",
		},
		CorrectIndex: 1,
	},
	{
		ID:     12,
		Prompt: "To avoid shaking and flicker in the animation it is important to:",
		Options: []string{
			"Move the camera whenever possible",
			"Let the lighting vary naturally",
			"Keep the camera still and the light constant",
			"Record video instead of taking photos",
		},
		CorrectIndex: 2,
	},
	{
		ID:     13,
		Prompt: "How many minutes were spent taking the project's photos?",
		Options: []string{
			"12 minutes",
			"5 minutes",
			"24 minutes",
			"2 minutes",
		},
		CorrectIndex: 0,
	},
	{
		ID:     14,
		Prompt: "A classic example of traditional animation is:",
		Options: []string{
			"Coraline",
			"Toy Story",
			"The Lion King (classic version)",
			"Films made with Scanimate",
		},
		CorrectIndex: 2,
	},
	{
		ID:     15,
		Prompt: "3D animation mainly involves:",
		Options: []string{
			"Painting on film",
			"Digital modeling, rigging and rendering",
			"Sand lit from below",
			"People acting frame by frame",
		},
		CorrectIndex: 1,
	},
}
