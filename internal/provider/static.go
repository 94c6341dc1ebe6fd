package provider

import (
	"context"
	"strings"

	"github.com/skanderbz/tutord/internal/rules"
	"github.com/skanderbz/tutord/internal/session"
)

// Canned educational answers by topic. Served when every live provider is
// down; deterministic and side-effect-free so students always get
// something on-topic instead of an error.
var topicTable = []rules.Category{
	{
		Name: "machine learning",
		Keywords: []string{
			"machine learning", "ml", "artificial intelligence", "ai",
			"neural network", "deep learning", "neuron",
		},
		Template: `Machine Learning is a subset of artificial intelligence that enables computers to learn and make decisions from data without being explicitly programmed for every scenario.

Key Types of Machine Learning:
1. Supervised Learning - learning with labeled data (classification and regression)
2. Unsupervised Learning - finding patterns in unlabeled data (clustering)
3. Reinforcement Learning - learning through interaction and rewards

Neural networks are the backbone of deep learning. They consist of an input layer that receives data, hidden layers that process information, and an output layer that produces predictions.

Common applications include image recognition, natural language processing, recommendation systems, and predictive analytics. Would you like to know more about any specific aspect?`,
	},
	{
		Name: "programming",
		Keywords: []string{
			"programming", "coding", "python", "javascript", "algorithm",
			"function", "variable",
		},
		Template: `Programming is the process of creating instructions for computers to execute. Here are some fundamental concepts:

Programming basics:
- Variables store data values
- Functions are reusable blocks of code
- Control structures: if/else, loops (for, while)
- Data structures: arrays, lists, dictionaries

Python is an excellent language for beginners because of its readable syntax and powerful libraries for AI and ML like NumPy, Pandas, and TensorFlow.

Problem-solving approach:
1. Understand the problem
2. Break it into smaller parts
3. Write pseudocode
4. Implement and test

What specific programming concept would you like to explore?`,
	},
	{
		Name: "mathematics",
		Keywords: []string{
			"math", "mathematics", "calculus", "linear algebra",
			"statistics", "probability",
		},
		Template: `Mathematics is fundamental to understanding AI and Machine Learning. Key areas include:

Linear Algebra:
- Vectors and matrices
- Matrix operations
- Eigenvalues and eigenvectors

Calculus:
- Derivatives for optimization
- Chain rule for backpropagation
- Gradient descent

Statistics and Probability:
- Probability distributions
- Bayes' theorem
- Statistical inference

These mathematical concepts explain how AI algorithms learn from data and make predictions. Which area interests you most?`,
	},
	{
		Name: "general help",
		Keywords: []string{"help", "what can you do", "topics", "learn"},
		Template: `I'm here to help you learn about AI, Machine Learning, Programming, and Mathematics!

Here are some topics I can assist with:
- AI and Machine Learning: concepts, algorithms, applications
- Programming: Python, algorithms, data structures
- Mathematics: linear algebra, calculus, statistics
- Deep Learning: neural networks, backpropagation, architectures

Feel free to ask specific questions like:
- "What is supervised learning?"
- "How do neural networks work?"
- "Explain gradient descent"
- "Help with Python loops"

What would you like to learn about today?`,
	},
}

// redirectTemplate is the answer of last resort. It must never be treated
// as a proper answer by the cascade's sentinel check, so it deliberately
// avoids the sentinel phrases.
const redirectTemplate = `I couldn't reach my knowledge sources for that one, but I'm still here to help!

I specialize in:
- Artificial Intelligence and Machine Learning
- Programming and Computer Science
- Mathematics for AI
- Algorithm Design and Problem Solving

Could you rephrase your question to be more specific about one of these areas? For example:
- "How do neural networks learn?"
- "Explain Python functions"
- "What is linear algebra used for in AI?"`

// StaticProvider answers from the fixed topic knowledge base. First
// matching category wins; no category match falls through to the generic
// redirect, so this provider never reports Unavailable.
type StaticProvider struct {
	matcher *rules.Matcher
}

// NewStaticProvider builds the canned-answer provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{matcher: rules.NewMatcher(topicTable)}
}

// Name implements Provider.
func (p *StaticProvider) Name() string { return "static-kb" }

// Generate implements Provider.
func (p *StaticProvider) Generate(_ context.Context, query string, _ []session.Exchange) Result {
	if cat, ok := p.matcher.FirstMatch(strings.ToLower(query)); ok {
		return Success(cat.Template)
	}
	return Success(redirectTemplate)
}

// RedirectProvider is the unconditional final tier: always the same
// generic apology-and-redirect message, regardless of input.
type RedirectProvider struct{}

// NewRedirectProvider builds the final-tier provider.
func NewRedirectProvider() *RedirectProvider { return &RedirectProvider{} }

// Name implements Provider.
func (p *RedirectProvider) Name() string { return "redirect" }

// Generate implements Provider. It cannot fail.
func (p *RedirectProvider) Generate(_ context.Context, _ string, _ []session.Exchange) Result {
	return Success(redirectTemplate)
}
